package voice

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jsphweid/chordstave/model"
	"github.com/jsphweid/chordstave/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cMajor(n int) []model.Chord {
	var chords []model.Chord
	for i := 0; i < n; i++ {
		chords = append(chords, model.Chord{
			Name:        "C",
			Numeral:     "I",
			Notes:       model.Notes{"C3", "E3", "G4", "C5"},
			Accidentals: []string{"", "", "", ""},
		})
	}
	return chords
}

func mustTime(t *testing.T, s string) TimeSignature {
	ts, err := ParseTimeSignature(s)
	require.NoError(t, err)
	return ts
}

func barSizes(v Voice) []int {
	var res []int
	for _, bar := range v.Bars {
		res = append(res, len(bar))
	}
	return res
}

func TestParseTimeSignature(t *testing.T) {
	cases := []struct {
		in       string
		perBar   int
		beats    float64
		hasError bool
	}{
		{"4/4", 4, 4, false},
		{"3/4", 3, 3, false},
		{"6/8", 3, 3, false},
		{"2/2", 4, 4, false},
		{"7/8", 3, 3.5, false},
		{"1/8", 0, 0, true},
		{"4/3", 0, 0, true},
		{"0/4", 0, 0, true},
		{"4-4", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			ts, err := ParseTimeSignature(c.in)
			if c.hasError {
				assert.True(t, errors.Is(err, ErrInvalidTimeSignature))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.perBar, ts.ChordsPerBar())
			assert.Equal(t, c.beats, ts.BeatsPerBar())
			assert.Equal(t, c.in, ts.String())
		})
	}
}

func TestParseMode(t *testing.T) {
	assert := assert.New(t)
	m, err := ParseMode("piano")
	assert.NoError(err)
	assert.Equal(Piano, m)

	m, err = ParseMode("SATB")
	assert.NoError(err)
	assert.Equal(SATB, m)

	_, err = ParseMode("organ")
	assert.ErrorIs(err, ErrInvalidMode)
}

func TestBarCountMatchesCeilingForEveryVoice(t *testing.T) {
	for _, sig := range []string{"4/4", "3/4", "6/8", "2/4"} {
		for n := 1; n <= 13; n++ {
			ts := mustTime(t, sig)
			want := util.CeilDiv(n, ts.ChordsPerBar())
			for _, mode := range []Mode{Piano, SATB} {
				name := fmt.Sprintf("%s %d chords %s", sig, n, mode)
				t.Run(name, func(t *testing.T) {
					p, err := Split(cMajor(n), ts, mode)
					require.NoError(t, err)
					assert.Equal(t, want, p.NumBars())
					for _, v := range p.Voices {
						assert.Len(t, v.Bars, want, v.Name)
					}
					assert.Equal(t, n, p.NumChords())
				})
			}
		}
	}
}

func TestFiveChordsInFourFour(t *testing.T) {
	p, err := SplitPiano(cMajor(5), mustTime(t, "4/4"))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, p.NumBars())
	assert.Equal([]int{4, 1}, barSizes(p.Voices[PianoTreble]))
	assert.Equal([]int{4, 1}, barSizes(p.Voices[PianoBass]))
}

func TestPianoSplitsByOctave(t *testing.T) {
	chords := []model.Chord{{
		Name:        "Dm7/C",
		Numeral:     "ii42",
		Notes:       model.Notes{"C3", "F#3", "A4", "Bb4", "D5"},
		Accidentals: []string{"", "#", "", "b", ""},
	}}
	p, err := SplitPiano(chords, mustTime(t, "4/4"))
	require.NoError(t, err)

	assert := assert.New(t)
	treble := p.Voices[PianoTreble].Bars[0][0]
	bass := p.Voices[PianoBass].Bars[0][0]

	assert.Equal(Treble, treble.Clef)
	assert.Equal(Bass, bass.Clef)
	assert.False(treble.Ghost)
	assert.False(bass.Ghost)

	var trebleNames, trebleAccs, bassNames, bassAccs []string
	for _, k := range treble.Keys {
		assert.GreaterOrEqual(k.Pitch.Octave, 4)
		trebleNames = append(trebleNames, k.Pitch.String())
		trebleAccs = append(trebleAccs, k.Accidental)
	}
	for _, k := range bass.Keys {
		assert.LessOrEqual(k.Pitch.Octave, 3)
		bassNames = append(bassNames, k.Pitch.String())
		bassAccs = append(bassAccs, k.Accidental)
	}
	assert.Equal([]string{"A4", "Bb4", "D5"}, trebleNames)
	assert.Equal([]string{"", "b", ""}, trebleAccs)
	assert.Equal([]string{"C3", "F#3"}, bassNames)
	assert.Equal([]string{"", "#"}, bassAccs)

	assert.Equal([]Label{{Kind: NameLabel, Text: "Dm7/C"}}, treble.Labels)
	assert.Equal([]Label{{Kind: NumeralLabel, Text: "ii42"}}, bass.Labels)
	assert.Empty(p.Ghosts)
}

func TestPianoOctaveFourIsTreble(t *testing.T) {
	chords := []model.Chord{{Notes: model.Notes{"C4", "E4", "G4"}}}
	p, err := SplitPiano(chords, mustTime(t, "4/4"))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(p.Voices[PianoTreble].Bars[0][0].Keys, 3)
	bass := p.Voices[PianoBass].Bars[0][0]
	assert.True(bass.Ghost)
	assert.Len(bass.Keys, 1)
	assert.Equal("D3", bass.Keys[0].Pitch.String())
	assert.Equal([]string{"bass-0"}, p.Ghosts)
}

func TestPianoGhostOnEmptyTreble(t *testing.T) {
	chords := []model.Chord{
		{Name: "C", Numeral: "I", Notes: model.Notes{"C2", "G2", "E3"}},
		{Name: "G", Numeral: "V", Notes: model.Notes{"G2", "B3", "D4"}},
	}
	p, err := SplitPiano(chords, mustTime(t, "3/4"))
	require.NoError(t, err)

	assert := assert.New(t)
	ghost := p.Voices[PianoTreble].Bars[0][0]
	assert.True(ghost.Ghost)
	assert.Equal("B4", ghost.Keys[0].Pitch.String())
	assert.Equal("treble-0", ghost.Id)
	// the name still rides on the ghost so it gets drawn above the stave
	assert.Equal([]Label{{Kind: NameLabel, Text: "C"}}, ghost.Labels)
	assert.False(p.Voices[PianoTreble].Bars[0][1].Ghost)
	assert.Equal([]string{"treble-0"}, p.Ghosts)
}

func TestSATBIndexMapping(t *testing.T) {
	chords := []model.Chord{{
		Name:        "F",
		Numeral:     "IV",
		Notes:       model.Notes{"F2", "C3", "A3", "F4"},
		Accidentals: []string{"", "", "n", ""},
	}}
	p, err := SplitSATB(chords, mustTime(t, "4/4"))
	require.NoError(t, err)

	assert := assert.New(t)
	want := []string{"F2", "C3", "A3", "F4"}
	clefs := []Clef{Bass, Bass, Treble, Treble}
	for v := 0; v < 4; v++ {
		n := p.Voices[v].Bars[0][0]
		assert.Equal(want[v], n.Keys[0].Pitch.String())
		assert.Equal(clefs[v], n.Clef)
		assert.False(n.Ghost)
	}
	assert.Equal("n", p.Voices[SATBAlto].Bars[0][0].Keys[0].Accidental)
	assert.Equal([]Label{{Kind: NumeralLabel, Text: "IV"}}, p.Voices[SATBBass].Bars[0][0].Labels)
	assert.Equal([]Label{{Kind: NameLabel, Text: "F"}}, p.Voices[SATBSoprano].Bars[0][0].Labels)
	assert.Empty(p.Voices[SATBTenor].Bars[0][0].Labels)
}

func TestSATBMissingSopranoIsGhost(t *testing.T) {
	chords := []model.Chord{{
		Name:        "C",
		Numeral:     "I",
		Notes:       model.Notes{"C3", "E3", "G4"},
		Accidentals: []string{"", "", ""},
	}}
	p, err := SplitSATB(chords, mustTime(t, "4/4"))
	require.NoError(t, err)

	assert := assert.New(t)
	soprano := p.Voices[SATBSoprano].Bars[0][0]
	assert.True(soprano.Ghost)
	assert.Equal([]Label{{Kind: NameLabel, Text: "C"}}, soprano.Labels)
	assert.Equal([]string{"soprano-0"}, p.Ghosts)
}

func TestSATBGhostsExactlyMissingTrailingVoices(t *testing.T) {
	for have := 0; have <= 4; have++ {
		notes := model.Notes{"C3", "G3", "E4", "C5"}[:have]
		p, err := SplitSATB([]model.Chord{{Notes: notes}}, mustTime(t, "4/4"))
		require.NoError(t, err)

		assert.Len(t, p.Ghosts, 4-have)
		for v := 0; v < 4; v++ {
			assert.Equal(t, v >= have, p.Voices[v].Bars[0][0].Ghost)
		}
	}
}

func TestSATBRejectsFifthVoice(t *testing.T) {
	chords := []model.Chord{{Notes: model.Notes{"C3", "G3", "E4", "G4", "C5"}}}
	_, err := SplitSATB(chords, mustTime(t, "4/4"))
	assert.ErrorIs(t, err, ErrTooManyNotes)
}

func TestSplitRejectsMisalignedAccidentals(t *testing.T) {
	chords := []model.Chord{{Notes: model.Notes{"C3", "E3", "G3"}, Accidentals: []string{""}}}
	_, err := SplitPiano(chords, mustTime(t, "4/4"))
	assert.ErrorIs(t, err, ErrAccidentalMismatch)
}

func TestSplitRejectsUnknownAccidental(t *testing.T) {
	chords := []model.Chord{{Notes: model.Notes{"C3"}, Accidentals: []string{"?"}}}
	_, err := SplitSATB(chords, mustTime(t, "4/4"))
	assert.ErrorIs(t, err, ErrInvalidAccidental)
}

func TestSplitIsIdempotent(t *testing.T) {
	chords := cMajor(7)
	chords[2] = model.Chord{Name: "Am", Numeral: "vi", Notes: model.Notes{"A2", "E3"}}
	ts := mustTime(t, "3/4")
	wantGhosts := map[Mode][]string{
		Piano: {"treble-2"},
		SATB:  {"alto-2", "soprano-2"},
	}
	for _, mode := range []Mode{Piano, SATB} {
		first, err := Split(chords, ts, mode)
		require.NoError(t, err)
		second, err := Split(chords, ts, mode)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, wantGhosts[mode], first.Ghosts, mode.String())
		assert.Equal(t, 3, first.NumBars())
	}
}

func TestSplitNoChords(t *testing.T) {
	p, err := SplitPiano(nil, mustTime(t, "4/4"))
	require.NoError(t, err)
	assert.Equal(t, 0, p.NumBars())
	assert.Equal(t, 0, p.NumChords())
}
