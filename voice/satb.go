package voice

import (
	"fmt"

	"github.com/jsphweid/chordstave/model"
)

const (
	SATBBass    = 0
	SATBTenor   = 1
	SATBAlto    = 2
	SATBSoprano = 3
)

var satbNames = []string{"bass", "tenor", "alto", "soprano"}

// SplitSATB maps note i of every chord to voice i: bass, tenor, alto,
// soprano. Bass and tenor sit on the bass stave, alto and soprano on the
// treble stave. Missing upper voices become ghost notes.
func SplitSATB(chords []model.Chord, ts TimeSignature) (*Partition, error) {
	p := &Partition{
		Mode:   SATB,
		Time:   ts,
		Voices: newVoices(satbNames, []Clef{Bass, Bass, Treble, Treble}),
	}
	bars := barSplitter{perBar: ts.ChordsPerBar()}

	for i, c := range chords {
		if len(c.Notes) > len(satbNames) {
			return nil, fmt.Errorf("chord %d: %w: %d notes", i, ErrTooManyNotes, len(c.Notes))
		}
		keys, err := parseChord(i, c)
		if err != nil {
			return nil, err
		}

		notes := make([]Note, len(satbNames))
		for v, name := range satbNames {
			clef := p.Voices[v].Clef
			n := Note{Id: noteId(name, i), ChordIndex: i, Clef: clef}
			if v < len(keys) {
				n.Keys = []Key{keys[v]}
			} else {
				n.Keys = []Key{ghostKey(clef)}
				n.Ghost = true
				p.Ghosts = append(p.Ghosts, n.Id)
			}
			notes[v] = n
		}

		notes[SATBSoprano].Labels = []Label{{Kind: NameLabel, Text: c.Name}}
		notes[SATBBass].Labels = []Label{{Kind: NumeralLabel, Text: c.Numeral}}

		bar := bars.next()
		for v := range notes {
			appendToBar(&p.Voices[v], bar, notes[v])
		}
	}

	return p, nil
}
