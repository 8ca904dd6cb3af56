package layout

import (
	"testing"

	"github.com/jsphweid/chordstave/chord"
	"github.com/jsphweid/chordstave/model"
	"github.com/jsphweid/chordstave/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progression(n int, notes ...string) []model.Chord {
	var res []model.Chord
	for i := 0; i < n; i++ {
		res = append(res, model.Chord{Name: "C", Numeral: "I", Notes: model.Notes(notes)})
	}
	return res
}

func layoutFor(t *testing.T, chords []model.Chord, sig, key string, mode voice.Mode) *Score {
	ts, err := voice.ParseTimeSignature(sig)
	require.NoError(t, err)
	k, err := chord.ParseKey(key)
	require.NoError(t, err)
	p, err := voice.Split(chords, ts, mode)
	require.NoError(t, err)
	s, err := Layout(p, k)
	require.NoError(t, err)
	return s
}

func TestLeadBarsAndLineOffsets(t *testing.T) {
	s := layoutFor(t, progression(16, "C3", "E4", "G4"), "4/4", "C", voice.Piano)

	assert := assert.New(t)
	assert.Equal(2, s.Lines)
	assert.Equal(600, s.Height)
	assert.Equal(1275, s.Width)
	assert.Len(s.Staves, 8)

	wantX := []int{15, 465, 865, 15}
	wantTrebleY := []int{25, 25, 25, 325}
	wantBassY := []int{125, 125, 125, 425}
	for bar := 0; bar < 4; bar++ {
		treble, err := s.StaveFor(bar, voice.Treble)
		require.NoError(t, err)
		bass, err := s.StaveFor(bar, voice.Bass)
		require.NoError(t, err)

		assert.Equal(wantX[bar], treble.X, "bar %d", bar)
		assert.Equal(wantTrebleY[bar], treble.Y, "bar %d", bar)
		assert.Equal(wantBassY[bar], bass.Y, "bar %d", bar)

		lead := bar%3 == 0
		assert.Equal(lead, treble.Lead)
		assert.Equal(lead, treble.ShowClef)
		if lead {
			assert.Equal(450, treble.Width)
		} else {
			assert.Equal(400, treble.Width)
		}
		assert.Equal(bar == 0, treble.ShowTime)
		assert.Equal(bar == 0, bass.ShowTime)
	}
}

func TestSATBUsesTallerBars(t *testing.T) {
	s := layoutFor(t, progression(4, "C3", "G3", "E4", "C5"), "4/4", "C", voice.SATB)

	assert := assert.New(t)
	assert.Equal(325, s.BarHeight)
	assert.Equal(325, s.Height)
	bass, err := s.StaveFor(0, voice.Bass)
	require.NoError(t, err)
	assert.Equal(150, bass.Y)
}

func TestConnectors(t *testing.T) {
	s := layoutFor(t, progression(17, "C3", "E4"), "4/4", "C", voice.Piano)

	// 17 chords in 4/4 make 5 bars: leads at 0 and 3, the end at 4
	var kinds []ConnectorKind
	var bars []int
	for _, c := range s.Connectors {
		kinds = append(kinds, c.Kind)
		bars = append(bars, c.Bar)
	}
	assert := assert.New(t)
	assert.Equal([]ConnectorKind{Brace, SingleLeft, Brace, SingleLeft, BoldDoubleRight}, kinds)
	assert.Equal([]int{0, 0, 3, 3, 4}, bars)

	last := s.Connectors[len(s.Connectors)-1]
	assert.Equal(465+400, last.X)
	treble, _ := s.StaveFor(4, voice.Treble)
	bass, _ := s.StaveFor(4, voice.Bass)
	assert.Equal(treble.TopLineY(), last.TopY)
	assert.Equal(bass.BottomLineY(), last.BottomY)
}

func TestSingleBarGetsLeadAndClosingConnectors(t *testing.T) {
	s := layoutFor(t, progression(2, "C3", "E4"), "3/4", "C", voice.Piano)
	assert.Len(t, s.Connectors, 3)
	assert.Equal(t, BoldDoubleRight, s.Connectors[2].Kind)
	assert.Equal(t, 15+450, s.Connectors[2].X)
}

func TestKeySignatureGlyphs(t *testing.T) {
	s := layoutFor(t, progression(1, "G3", "B3", "D4"), "4/4", "G", voice.Piano)
	treble, _ := s.StaveFor(0, voice.Treble)
	bass, _ := s.StaveFor(0, voice.Bass)

	assert := assert.New(t)
	require.Len(t, treble.KeyGlyphs, 1)
	require.Len(t, bass.KeyGlyphs, 1)
	assert.True(treble.KeyGlyphs[0].Sharp)
	// F5 is the treble top line, F3 the bass fourth line
	assert.Equal(treble.LineY(0), treble.KeyGlyphs[0].Y)
	assert.Equal(bass.LineY(1), bass.KeyGlyphs[0].Y)
	assert.Equal(60, treble.KeyGlyphs[0].X)
	assert.Equal(80, treble.TimeX)
	assert.Equal(105, treble.NoteStartX)

	s = layoutFor(t, progression(1, "G3"), "4/4", "Eb", voice.Piano)
	treble, _ = s.StaveFor(0, voice.Treble)
	require.Len(t, treble.KeyGlyphs, 3)
	assert.False(treble.KeyGlyphs[0].Sharp)
}

func TestNoteSpacingAndPitchPlacement(t *testing.T) {
	s := layoutFor(t, progression(8, "C4", "E4", "G4"), "4/4", "C", voice.Piano)

	var bar0, bar1 []PlacedNote
	for _, n := range s.Notes {
		if n.Voice != voice.PianoTreble {
			continue
		}
		switch n.Bar {
		case 0:
			bar0 = append(bar0, n)
		case 1:
			bar1 = append(bar1, n)
		}
	}

	assert := assert.New(t)
	require.Len(t, bar0, 4)
	require.Len(t, bar1, 4)
	// bar 0 starts after clef and time signature, bar 1 right after padding
	assert.Equal(101, bar0[0].X)
	assert.Equal(101+92, bar0[1].X)
	assert.Equal(491, bar1[0].X)
	assert.Equal(491+3*93, bar1[3].X)

	treble, _ := s.StaveFor(0, voice.Treble)
	c4 := bar0[0].Keys[0]
	assert.Equal("C4", c4.Pitch.String())
	assert.Equal(treble.BottomLineY()+10, c4.Y)
	assert.Equal([]int{treble.BottomLineY() + 10}, c4.Ledgers)
	assert.Empty(bar0[0].Keys[2].Ledgers)
}

func TestPianoStemDirection(t *testing.T) {
	assert := assert.New(t)

	high := layoutFor(t, progression(1, "G4", "C5", "E5"), "4/4", "C", voice.Piano)
	low := layoutFor(t, progression(1, "C4", "E4", "G4"), "4/4", "C", voice.Piano)

	for _, n := range high.Notes {
		if n.Voice == voice.PianoTreble {
			assert.False(n.StemUp)
			assert.Equal(n.X-6, n.StemX)
			assert.Equal(n.Keys[0].Y+35, n.StemY2)
		}
	}
	for _, n := range low.Notes {
		if n.Voice == voice.PianoTreble {
			assert.True(n.StemUp)
			assert.Equal(n.X+6, n.StemX)
			assert.Equal(n.Keys[len(n.Keys)-1].Y-35, n.StemY2)
		}
	}
}

func TestSATBStemDirections(t *testing.T) {
	s := layoutFor(t, progression(3, "C3", "G3", "E4", "C5"), "3/4", "C", voice.SATB)
	for _, n := range s.Notes {
		want := n.Voice == voice.SATBTenor || n.Voice == voice.SATBSoprano
		assert.Equal(t, want, n.StemUp, n.Id)
	}
}

func TestSATBVoicesDrawnOnTheirClefStave(t *testing.T) {
	s := layoutFor(t, progression(1, "C3", "G3", "E4", "C5"), "4/4", "C", voice.SATB)
	for _, n := range s.Notes {
		want := voice.Bass
		if n.Voice >= voice.SATBAlto {
			want = voice.Treble
		}
		assert.Equal(t, want, n.Clef, n.Id)
	}
}

func TestLabelPositionsFollowKindAndLine(t *testing.T) {
	chords := progression(13, "C3", "E4")
	s := layoutFor(t, chords, "4/4", "C", voice.Piano)

	assert := assert.New(t)
	assert.Len(s.Labels, 26)
	for _, l := range s.Labels {
		var bar int
		for _, n := range s.Notes {
			if n.Id == l.NoteId {
				bar = n.Bar
				assert.Equal(n.X, l.X)
			}
		}
		line := bar / 3
		if l.Kind == voice.NameLabel {
			assert.Equal("C", l.Text)
			assert.Equal(35+line*300, l.Y)
		} else {
			assert.Equal("I", l.Text)
			assert.Equal(250+line*300, l.Y)
		}
	}

	satb := layoutFor(t, progression(4, "C3", "G3", "E4"), "4/4", "C", voice.SATB)
	for _, l := range satb.Labels {
		if l.Kind == voice.NumeralLabel {
			assert.Equal(275, l.Y)
			assert.Equal("bass-"+l.NoteId[len("bass-"):], l.NoteId)
		} else {
			assert.Equal(35, l.Y)
		}
	}
}

func TestEmptyLabelsAreSkipped(t *testing.T) {
	chords := []model.Chord{{Notes: model.Notes{"C3", "E4"}}}
	s := layoutFor(t, chords, "4/4", "C", voice.Piano)
	assert.Empty(t, s.Labels)
}

func TestLayoutErrors(t *testing.T) {
	ts, _ := voice.ParseTimeSignature("4/4")
	c, _ := chord.ParseKey("C")
	empty, err := voice.SplitPiano(nil, ts)
	require.NoError(t, err)
	_, err = Layout(empty, c)
	assert.ErrorIs(t, err, ErrNoBars)

	ds, _ := chord.ParseKey("D#")
	p, err := voice.SplitPiano(progression(1, "C4"), ts)
	require.NoError(t, err)
	_, err = Layout(p, ds)
	assert.ErrorIs(t, err, chord.ErrInvalidKey)
}
