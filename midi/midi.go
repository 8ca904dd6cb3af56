package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/chordstave/chord"
	"github.com/jsphweid/chordstave/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	ErrInvalidMidi = errors.New("invalid midi file")
	ErrNoChords    = errors.New("no chords found in midi file")
)

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	return Read(bytes.NewReader(dat))
}

func Read(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("%w: %v", ErrInvalidMidi, r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMidi, err)
	}
	return res, nil
}

// ReadChords extracts the chords of a MIDI stream, spelled against key.
// Chords with fewer than minNotes keys down are skipped.
func ReadChords(r io.Reader, key chord.Key, minNotes int) ([]model.Chord, error) {
	s, err := Read(r)
	if err != nil {
		return nil, err
	}
	chords, err := chord.GetChords(s, key, minNotes)
	if err != nil {
		return nil, err
	}
	if len(chords) == 0 {
		return nil, ErrNoChords
	}
	return chords, nil
}
