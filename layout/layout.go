// Package layout places bars, staves and notes of a voice partition on a
// fixed-width drawing surface, three bars to a line.
package layout

import (
	"errors"
	"fmt"

	"github.com/jsphweid/chordstave/chord"
	"github.com/jsphweid/chordstave/constants"
	"github.com/jsphweid/chordstave/util"
	"github.com/jsphweid/chordstave/voice"
)

var ErrNoBars = errors.New("nothing to lay out")

type ConnectorKind int

const (
	Brace ConnectorKind = iota
	SingleLeft
	BoldDoubleRight
)

func (k ConnectorKind) String() string {
	switch k {
	case Brace:
		return "brace"
	case SingleLeft:
		return "single-left"
	}
	return "bold-double-right"
}

// Connector joins the treble and bass staves of one bar.
type Connector struct {
	Kind    ConnectorKind
	Bar     int
	X       int
	TopY    int
	BottomY int
}

// Score is a fully positioned progression, ready to draw.
type Score struct {
	Mode       voice.Mode
	Key        chord.Key
	Time       voice.TimeSignature
	Width      int
	Height     int
	BarHeight  int
	Lines      int
	Staves     []Stave
	Connectors []Connector
	Notes      []PlacedNote
	Labels     []PlacedLabel
	Ghosts     []string
}

type metrics struct {
	barHeight int
	bassY     int
	numeralY  int
}

func metricsFor(mode voice.Mode) metrics {
	if mode == voice.SATB {
		return metrics{
			barHeight: constants.SATBBarHeight,
			bassY:     constants.SATBBassYOffset,
			numeralY:  constants.SATBChordNumeralY,
		}
	}
	return metrics{
		barHeight: constants.PianoBarHeight,
		bassY:     constants.PianoBassYOffset,
		numeralY:  constants.PianoChordNumeralY,
	}
}

// Layout positions every bar of p. Lead bars (every third bar) carry the
// clef and key signature, the first bar also the time signature, and the
// last bar closes with a bold double barline.
func Layout(p *voice.Partition, key chord.Key) (*Score, error) {
	numBars := p.NumBars()
	if numBars == 0 {
		return nil, ErrNoBars
	}
	sigLetters, sharps, err := key.Signature()
	if err != nil {
		return nil, err
	}

	m := metricsFor(p.Mode)
	lines := util.CeilDiv(numBars, constants.BarsPerLine)
	s := &Score{
		Mode:      p.Mode,
		Key:       key,
		Time:      p.Time,
		Width:     constants.SurfaceWidth,
		Height:    lines * m.barHeight,
		BarHeight: m.barHeight,
		Lines:     lines,
		Ghosts:    append([]string(nil), p.Ghosts...),
	}

	barX := constants.BarXOffset
	trebleY := constants.TrebleYOffset
	bassY := m.bassY

	for i := 0; i < numBars; i++ {
		var treble, bass Stave
		lead := i%constants.BarsPerLine == 0

		if lead {
			if i > 0 {
				barX = constants.BarXOffset
				trebleY += m.barHeight
				bassY += m.barHeight
			}
			treble = newLeadStave(i, voice.Treble, barX, trebleY, sigLetters, sharps, p.Time, i == 0)
			bass = newLeadStave(i, voice.Bass, barX, bassY, sigLetters, sharps, p.Time, i == 0)
			s.Connectors = append(s.Connectors,
				connect(Brace, i, treble, bass),
				connect(SingleLeft, i, treble, bass),
			)
			barX += constants.LeadBarWidth
		} else {
			treble = newStave(i, voice.Treble, barX, trebleY, constants.BarWidth)
			bass = newStave(i, voice.Bass, barX, bassY, constants.BarWidth)
			barX += constants.BarWidth
		}

		if i == numBars-1 {
			s.Connectors = append(s.Connectors, connect(BoldDoubleRight, i, treble, bass))
		}
		s.Staves = append(s.Staves, treble, bass)

		line := i / constants.BarsPerLine
		for v, vc := range p.Voices {
			stave := treble
			if vc.Clef == voice.Bass {
				stave = bass
			}
			placed := Format(vc.Bars[i], stave)
			for j := range placed {
				placed[j].Voice = v
				placed[j].StemUp = StemUp(p.Mode, v, placed[j])
				placeStem(&placed[j])
				s.Labels = append(s.Labels, placeLabels(&placed[j], line, m)...)
			}
			s.Notes = append(s.Notes, placed...)
		}
	}

	return s, nil
}

// StaveFor returns the stave of the given clef in bar.
func (s *Score) StaveFor(bar int, clef voice.Clef) (Stave, error) {
	for _, st := range s.Staves {
		if st.Bar == bar && st.Clef == clef {
			return st, nil
		}
	}
	return Stave{}, fmt.Errorf("no %s stave in bar %d", clef, bar)
}

func connect(kind ConnectorKind, bar int, treble, bass Stave) Connector {
	c := Connector{
		Kind:    kind,
		Bar:     bar,
		X:       treble.X,
		TopY:    treble.TopLineY(),
		BottomY: bass.BottomLineY(),
	}
	if kind == BoldDoubleRight {
		c.X = treble.X + treble.Width
	}
	return c
}

func placeLabels(n *PlacedNote, line int, m metrics) []PlacedLabel {
	var res []PlacedLabel
	for _, l := range n.Labels {
		if l.Text == "" {
			continue
		}
		y := constants.ChordNameY + line*m.barHeight
		if l.Kind == voice.NumeralLabel {
			y = m.numeralY + line*m.barHeight
		}
		res = append(res, PlacedLabel{NoteId: n.Id, Kind: l.Kind, Text: l.Text, X: n.X, Y: y})
	}
	return res
}
