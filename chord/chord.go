package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/chordstave/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

type reducedEvent struct {
	offset    int64
	isNoteOff bool
	note      uint8
}

// CreateChordKey identifies a set of sounding keys regardless of order.
func CreateChordKey(notes []uint8) string {
	sorted := append([]uint8(nil), notes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

func pressedKeys(pressed map[uint8]int64) []uint8 {
	var keys []uint8
	for key := range pressed {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// FromKeys builds a chord from MIDI keys, lowest first, spelling pitches with
// sharps and printing accidentals relative to key.
func FromKeys(keys []uint8, key Key) model.Chord {
	var c model.Chord
	c.Notes = model.Notes{}
	for _, k := range keys {
		p := PitchFromMidiKey(k)
		c.Notes = append(c.Notes, p.String())
		c.Accidentals = append(c.Accidentals, key.AccidentalFor(p))
	}
	return c
}

// GetChords reads the sounding chords of a MIDI file in time order. Every
// note-on or note-off that leaves at least minNotes keys down produces a
// chord; repeats of the same key set are collapsed.
func GetChords(s *smf.SMF, key Key, minNotes int) (chords []model.Chord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading chords: %v", r)
		}
	}()

	var reducedEvents []reducedEvent

	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			absTime := s.TimeAt(absTicks)
			var channel, note, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &note, &velocity):
				// a note-on with zero velocity is a note-off
				reducedEvents = append(reducedEvents, reducedEvent{offset: absTime, isNoteOff: velocity == 0, note: note})
			case event.Message.GetNoteOff(&channel, &note, &velocity):
				reducedEvents = append(reducedEvents, reducedEvent{offset: absTime, isNoteOff: true, note: note})
			}
		}
	}

	// prioritize smaller offset values then note off
	sort.SliceStable(reducedEvents, func(i, j int) bool {
		if reducedEvents[i].offset != reducedEvents[j].offset {
			return reducedEvents[i].offset < reducedEvents[j].offset
		}
		return reducedEvents[i].isNoteOff && !reducedEvents[j].isNoteOff
	})

	var offsets []int64
	timestampToKeys := make(map[int64][]uint8)
	pressed := make(map[uint8]int64)
	for _, evt := range reducedEvents {
		if evt.isNoteOff {
			delete(pressed, evt.note)
		} else {
			pressed[evt.note] = evt.offset
		}
		if _, seen := timestampToKeys[evt.offset]; !seen {
			offsets = append(offsets, evt.offset)
		}
		timestampToKeys[evt.offset] = pressedKeys(pressed)
	}

	var lastKey string
	for _, offset := range offsets {
		keys := timestampToKeys[offset]
		if len(keys) == 0 || len(keys) < minNotes {
			continue
		}
		chordKey := CreateChordKey(keys)
		if chordKey == lastKey {
			continue
		}
		lastKey = chordKey
		chords = append(chords, FromKeys(keys, key))
	}
	return chords, nil
}
