package voice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type TimeSignature struct {
	Numerator   int
	Denominator int
}

func ParseTimeSignature(s string) (TimeSignature, error) {
	var ts TimeSignature
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return ts, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}

	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || num < 1 {
		return ts, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}
	den, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || !validDenominator(den) {
		return ts, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}

	ts = TimeSignature{Numerator: num, Denominator: den}
	if ts.BeatsPerBar() < 1 {
		return ts, fmt.Errorf("%w: %q holds less than one quarter note", ErrInvalidTimeSignature, s)
	}
	return ts, nil
}

func validDenominator(d int) bool {
	switch d {
	case 1, 2, 4, 8, 16, 32:
		return true
	}
	return false
}

// BeatsPerBar counts quarter-note beats: numerator × (4 / denominator).
func (t TimeSignature) BeatsPerBar() float64 {
	return float64(t.Numerator) * (4 / float64(t.Denominator))
}

// ChordsPerBar is how many quarter-note chords fit in one bar.
func (t TimeSignature) ChordsPerBar() int {
	return int(math.Floor(t.BeatsPerBar()))
}

func (t TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", t.Numerator, t.Denominator)
}
