// Package voice splits a chord progression into notational voices and bars.
//
// Splitting is pure: the same chords and time signature always produce the
// same partition, note identifiers included.
package voice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/chordstave/chord"
	"github.com/jsphweid/chordstave/constants"
	"github.com/jsphweid/chordstave/model"
)

var (
	ErrInvalidTimeSignature = errors.New("invalid time signature")
	ErrInvalidMode          = errors.New("invalid draw mode")
	ErrAccidentalMismatch   = errors.New("accidentals not aligned with notes")
	ErrInvalidAccidental    = errors.New("invalid accidental")
	ErrTooManyNotes         = errors.New("too many notes for SATB")
)

type Mode int

const (
	Piano Mode = iota
	SATB
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "piano":
		return Piano, nil
	case "satb":
		return SATB, nil
	}
	return Piano, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) String() string {
	if m == SATB {
		return "SATB"
	}
	return "piano"
}

type Clef int

const (
	Treble Clef = iota
	Bass
)

func (c Clef) String() string {
	if c == Bass {
		return "bass"
	}
	return "treble"
}

type LabelKind int

const (
	NameLabel LabelKind = iota
	NumeralLabel
)

func (k LabelKind) String() string {
	if k == NumeralLabel {
		return "numeral"
	}
	return "name"
}

type Label struct {
	Kind LabelKind
	Text string
}

// Key is one notehead of a note.
type Key struct {
	Pitch      chord.Pitch
	Accidental string
}

// Note is the quarter note one voice contributes for one chord.
type Note struct {
	Id         string
	ChordIndex int
	Clef       Clef
	Keys       []Key
	Ghost      bool
	Labels     []Label
}

type Voice struct {
	Name string
	Clef Clef
	Bars [][]Note
}

type Partition struct {
	Mode   Mode
	Time   TimeSignature
	Voices []Voice
	// identifiers of every ghost note, in chord order
	Ghosts []string
}

func (p *Partition) NumBars() int {
	if len(p.Voices) == 0 {
		return 0
	}
	return len(p.Voices[0].Bars)
}

func (p *Partition) NumChords() int {
	if len(p.Voices) == 0 {
		return 0
	}
	var n int
	for _, bar := range p.Voices[0].Bars {
		n += len(bar)
	}
	return n
}

// Split partitions chords into the voices of the given mode.
func Split(chords []model.Chord, ts TimeSignature, mode Mode) (*Partition, error) {
	switch mode {
	case Piano:
		return SplitPiano(chords, ts)
	case SATB:
		return SplitSATB(chords, ts)
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
}

func noteId(voice string, chordIndex int) string {
	return fmt.Sprintf("%s-%d", voice, chordIndex)
}

func validAccidental(s string) bool {
	switch s {
	case "", "#", "b", "n", "x", "##", "bb":
		return true
	}
	return false
}

// parseChord parses a chord's pitches and pairs each with its accidental.
func parseChord(i int, c model.Chord) ([]Key, error) {
	if len(c.Accidentals) != 0 && len(c.Accidentals) != len(c.Notes) {
		return nil, fmt.Errorf("chord %d: %w: %d notes, %d accidentals", i, ErrAccidentalMismatch, len(c.Notes), len(c.Accidentals))
	}

	keys := make([]Key, 0, len(c.Notes))
	for j, n := range c.Notes {
		p, err := chord.ParsePitch(n)
		if err != nil {
			return nil, fmt.Errorf("chord %d: %w", i, err)
		}
		acc := c.AccidentalAt(j)
		if !validAccidental(acc) {
			return nil, fmt.Errorf("chord %d: %w: %q", i, ErrInvalidAccidental, acc)
		}
		keys = append(keys, Key{Pitch: p, Accidental: acc})
	}
	return keys, nil
}

func ghostKey(clef Clef) Key {
	pitch := constants.TrebleGhostPitch
	if clef == Bass {
		pitch = constants.BassGhostPitch
	}
	p, _ := chord.ParsePitch(pitch)
	return Key{Pitch: p}
}

// barSplitter hands out bar indexes, opening a new bar once the current one
// holds a full bar of beats.
type barSplitter struct {
	perBar    int
	bar       int
	beatInBar int
}

func (b *barSplitter) next() int {
	b.beatInBar++
	if b.beatInBar > b.perBar {
		b.bar++
		b.beatInBar = 1
	}
	return b.bar
}

func newVoices(names []string, clefs []Clef) []Voice {
	voices := make([]Voice, len(names))
	for i := range names {
		voices[i] = Voice{Name: names[i], Clef: clefs[i]}
	}
	return voices
}

func appendToBar(v *Voice, bar int, n Note) {
	for len(v.Bars) <= bar {
		v.Bars = append(v.Bars, nil)
	}
	v.Bars[bar] = append(v.Bars[bar], n)
}
