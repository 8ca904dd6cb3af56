package voice

import (
	"github.com/jsphweid/chordstave/constants"
	"github.com/jsphweid/chordstave/model"
)

const (
	PianoTreble = 0
	PianoBass   = 1
)

// SplitPiano separates each chord's notes by octave: octave 4 and above is
// drawn on the treble stave, everything lower on the bass stave. A side with
// no notes gets a ghost note so both voices stay aligned chord for chord.
func SplitPiano(chords []model.Chord, ts TimeSignature) (*Partition, error) {
	p := &Partition{
		Mode:   Piano,
		Time:   ts,
		Voices: newVoices([]string{"treble", "bass"}, []Clef{Treble, Bass}),
	}
	bars := barSplitter{perBar: ts.ChordsPerBar()}

	for i, c := range chords {
		keys, err := parseChord(i, c)
		if err != nil {
			return nil, err
		}

		var trebleKeys, bassKeys []Key
		for _, k := range keys {
			if k.Pitch.Octave >= constants.PianoTrebleMinOctave {
				trebleKeys = append(trebleKeys, k)
			} else {
				bassKeys = append(bassKeys, k)
			}
		}

		treble := p.pianoNote("treble", i, Treble, trebleKeys)
		treble.Labels = []Label{{Kind: NameLabel, Text: c.Name}}
		bass := p.pianoNote("bass", i, Bass, bassKeys)
		bass.Labels = []Label{{Kind: NumeralLabel, Text: c.Numeral}}

		bar := bars.next()
		appendToBar(&p.Voices[PianoTreble], bar, treble)
		appendToBar(&p.Voices[PianoBass], bar, bass)
	}

	return p, nil
}

func (p *Partition) pianoNote(voice string, chordIndex int, clef Clef, keys []Key) Note {
	n := Note{Id: noteId(voice, chordIndex), ChordIndex: chordIndex, Clef: clef, Keys: keys}
	if len(keys) == 0 {
		n.Keys = []Key{ghostKey(clef)}
		n.Ghost = true
		p.Ghosts = append(p.Ghosts, n.Id)
	}
	return n
}
