package chord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPitch = errors.New("invalid pitch")

const letters = "CDEFGAB"

// semitones above C for each natural letter
var letterSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

// Pitch is a spelled pitch such as C#4 or Bb3.
type Pitch struct {
	Letter     byte
	Alteration int // -2..2, negative for flats
	Octave     int
}

func ParsePitch(s string) (Pitch, error) {
	var p Pitch
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return p, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}

	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	if strings.IndexByte(letters, letter) < 0 {
		return p, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}

	i := 1
	for i < len(s) && (s[i] < '0' || s[i] > '9') && s[i] != '-' {
		i++
	}
	alteration, ok := parseAlteration(s[1:i])
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}

	// tolerate VexFlow style keys like "c#/4"
	octaveStr := strings.TrimPrefix(s[i:], "/")
	octave, err := strconv.Atoi(octaveStr)
	if err != nil || octave < 0 || octave > 9 {
		return p, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}

	p.Letter = letter
	p.Alteration = alteration
	p.Octave = octave
	return p, nil
}

func parseAlteration(s string) (int, bool) {
	switch strings.TrimSuffix(s, "/") {
	case "":
		return 0, true
	case "#":
		return 1, true
	case "x", "##":
		return 2, true
	case "b":
		return -1, true
	case "bb":
		return -2, true
	}
	return 0, false
}

func (p Pitch) letterIndex() int {
	return strings.IndexByte(letters, p.Letter)
}

// Diatonic is the number of letter steps above C0, the unit of vertical
// staff position.
func (p Pitch) Diatonic() int {
	return p.Octave*7 + p.letterIndex()
}

// MidiKey returns the MIDI key number, C4 = 60.
func (p Pitch) MidiKey() int {
	return (p.Octave+1)*12 + letterSemitones[p.letterIndex()] + p.Alteration
}

func (p Pitch) String() string {
	return fmt.Sprintf("%c%s%d", p.Letter, AlterationSymbol(p.Alteration), p.Octave)
}

// AlterationSymbol is the spelling used in pitch names.
func AlterationSymbol(alteration int) string {
	switch alteration {
	case 2:
		return "x"
	case 1:
		return "#"
	case -1:
		return "b"
	case -2:
		return "bb"
	}
	return ""
}

// PitchFromMidiKey spells a MIDI key with sharps.
func PitchFromMidiKey(key uint8) Pitch {
	names := [12]struct {
		letter byte
		alt    int
	}{
		{'C', 0}, {'C', 1}, {'D', 0}, {'D', 1}, {'E', 0}, {'F', 0},
		{'F', 1}, {'G', 0}, {'G', 1}, {'A', 0}, {'A', 1}, {'B', 0},
	}
	n := names[key%12]
	return Pitch{Letter: n.letter, Alteration: n.alt, Octave: int(key)/12 - 1}
}
