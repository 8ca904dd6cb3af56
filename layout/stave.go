package layout

import (
	"github.com/jsphweid/chordstave/constants"
	"github.com/jsphweid/chordstave/voice"
)

// treble positions of key signature accidentals, in drawing order
var (
	sharpPositions = map[byte]int{'F': 38, 'C': 35, 'G': 39, 'D': 36, 'A': 33, 'E': 37, 'B': 34}
	flatPositions  = map[byte]int{'B': 34, 'E': 37, 'A': 33, 'D': 36, 'G': 32, 'C': 35, 'F': 31}
)

// the bass clef draws the same pattern two octaves lower
const bassKeyShift = 14

type KeyGlyph struct {
	Sharp bool
	X     int
	Y     int
}

// Stave is one five-line stave of one bar. Y is the top of the stave's
// bounding area; the top line sits SpaceAboveStave below it.
type Stave struct {
	Bar        int
	Clef       voice.Clef
	X          int
	Y          int
	Width      int
	Lead       bool
	ShowClef   bool
	ShowTime   bool
	KeyGlyphs  []KeyGlyph
	Time       voice.TimeSignature
	TimeX      int
	NoteStartX int
}

func newStave(bar int, clef voice.Clef, x, y, width int) Stave {
	return Stave{
		Bar:        bar,
		Clef:       clef,
		X:          x,
		Y:          y,
		Width:      width,
		NoteStartX: x + constants.StavePadding,
	}
}

func newLeadStave(bar int, clef voice.Clef, x, y int, sig []byte, sharps bool, ts voice.TimeSignature, showTime bool) Stave {
	s := newStave(bar, clef, x, y, constants.LeadBarWidth)
	s.Lead = true
	s.ShowClef = true

	cursor := x + constants.StavePadding + constants.ClefWidth
	for _, letter := range sig {
		pos := sharpPositions[letter]
		if !sharps {
			pos = flatPositions[letter]
		}
		if clef == voice.Bass {
			pos -= bassKeyShift
		}
		s.KeyGlyphs = append(s.KeyGlyphs, KeyGlyph{Sharp: sharps, X: cursor, Y: s.YForDiatonic(pos)})
		cursor += constants.KeyAccWidth
	}
	if len(sig) > 0 {
		cursor += constants.StavePadding
	}

	if showTime {
		s.ShowTime = true
		s.Time = ts
		s.TimeX = cursor
		cursor += constants.TimeSigWidth
	}
	s.NoteStartX = cursor
	return s
}

func (s Stave) TopLineY() int {
	return s.Y + constants.SpaceAboveStave
}

func (s Stave) BottomLineY() int {
	return s.LineY(constants.StaveLines - 1)
}

// LineY is the y of line i, counted from the top line.
func (s Stave) LineY(i int) int {
	return s.TopLineY() + i*constants.LineSpacing
}

func (s Stave) topDiatonic() int {
	if s.Clef == voice.Bass {
		return constants.BassTopLine
	}
	return constants.TrebleTopLine
}

func (s Stave) middleDiatonic() int {
	if s.Clef == voice.Bass {
		return constants.BassMiddleLine
	}
	return constants.TrebleMiddleLine
}

// YForDiatonic maps a letter-step position to y; each step is half a line
// spacing.
func (s Stave) YForDiatonic(d int) int {
	return s.TopLineY() + (s.topDiatonic()-d)*constants.LineSpacing/2
}

// LedgerLines returns the y of each ledger line a note at d needs.
func (s Stave) LedgerLines(d int) []int {
	var res []int
	top := s.topDiatonic()
	bottom := top - 2*(constants.StaveLines-1)
	for l := top + 2; l <= d; l += 2 {
		res = append(res, s.YForDiatonic(l))
	}
	for l := bottom - 2; l >= d; l -= 2 {
		res = append(res, s.YForDiatonic(l))
	}
	return res
}

func (s Stave) EndX() int {
	return s.X + s.Width
}
