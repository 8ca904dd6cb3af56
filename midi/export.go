package midi

import (
	"fmt"
	"io"

	"github.com/jsphweid/chordstave/chord"
	"github.com/jsphweid/chordstave/voice"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = smf.MetricTicks(480)
	defaultBPM      = 90
	velocity        = 80
)

// Export builds a format 1 file from a partition: a conductor track with
// meter and tempo, then one track per voice. Every chord is a quarter note
// and ghost notes become rests.
func Export(p *voice.Partition, bpm float64) (*smf.SMF, error) {
	if bpm <= 0 {
		bpm = defaultBPM
	}
	if p.Time.Denominator <= 0 || p.Time.Denominator > 255 || p.Time.Numerator > 255 {
		return nil, fmt.Errorf("%w: %s", voice.ErrInvalidTimeSignature, p.Time)
	}

	res := smf.NewSMF1()
	res.TimeFormat = ticksPerQuarter

	var conductor smf.Track
	conductor.Add(0, smf.MetaMeter(uint8(p.Time.Numerator), uint8(p.Time.Denominator)))
	conductor.Add(0, smf.MetaTempo(bpm))
	conductor.Close(0)
	if err := res.Add(conductor); err != nil {
		return nil, err
	}

	quarter := ticksPerQuarter.Ticks4th()
	for v, vc := range p.Voices {
		var track smf.Track
		channel := uint8(v)
		track.Add(0, smf.MetaTrackSequenceName(vc.Name))

		var rest uint32
		for _, bar := range vc.Bars {
			for _, n := range bar {
				if n.Ghost {
					rest += quarter
					continue
				}
				keys, err := midiKeys(n)
				if err != nil {
					return nil, err
				}
				delta := rest
				for _, key := range keys {
					track.Add(delta, midi.NoteOn(channel, key, velocity))
					delta = 0
				}
				delta = quarter
				for _, key := range keys {
					track.Add(delta, midi.NoteOff(channel, key))
					delta = 0
				}
				rest = 0
			}
		}
		track.Close(rest)
		if err := res.Add(track); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// midiKeys rejects pitches outside the 0..127 MIDI key range.
func midiKeys(n voice.Note) ([]uint8, error) {
	keys := make([]uint8, 0, len(n.Keys))
	for _, k := range n.Keys {
		key := k.Pitch.MidiKey()
		if key < 0 || key > 127 {
			return nil, fmt.Errorf("%s: %w: %s is outside the MIDI range", n.Id, chord.ErrInvalidPitch, k.Pitch)
		}
		keys = append(keys, uint8(key))
	}
	return keys, nil
}

// WriteExport writes the exported partition to w as a standard MIDI file.
func WriteExport(w io.Writer, p *voice.Partition, bpm float64) error {
	s, err := Export(p, bpm)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}
