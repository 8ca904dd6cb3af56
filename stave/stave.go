// Package stave turns an analysis response into rendered notation.
//
// Build is a straight pipeline: validate the response, split the chords
// into voices, lay the voices out, then draw them. Nothing is retried and
// nothing is shared between calls.
package stave

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/chordstave/chord"
	"github.com/jsphweid/chordstave/constants"
	"github.com/jsphweid/chordstave/layout"
	"github.com/jsphweid/chordstave/model"
	"github.com/jsphweid/chordstave/render"
	"github.com/jsphweid/chordstave/voice"
)

var (
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrNoChords       = errors.New("no chords to render")
	ErrTooManyChords  = errors.New("too many chords")
)

type Options struct {
	ColourVoices bool
	// Surface overrides the default in-memory SVG surface. Result.SVG is
	// empty when it is set.
	Surface render.Surface
}

type Result struct {
	Partition *voice.Partition
	Score     *layout.Score
	SVG       []byte
	Ghosts    []string
	Warnings  []string
}

// Build renders resp. A response flagged as failed renders nothing.
func Build(resp model.AnalysisResponse, opts Options) (*Result, error) {
	if resp.Chords.Error.Failed {
		if resp.Chords.Error.Code != "" {
			return nil, fmt.Errorf("%w: %s", ErrAnalysisFailed, resp.Chords.Error.Code)
		}
		return nil, ErrAnalysisFailed
	}
	chords := resp.Chords.Chords
	if len(chords) == 0 {
		return nil, ErrNoChords
	}
	if len(chords) > constants.MaxChords {
		return nil, fmt.Errorf("%w: %d, at most %d", ErrTooManyChords, len(chords), constants.MaxChords)
	}

	mode, ts, key, err := parseHeader(resp)
	if err != nil {
		return nil, err
	}

	p, err := voice.Split(chords, ts, mode)
	if err != nil {
		return nil, err
	}
	score, err := layout.Layout(p, key)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Partition: p,
		Score:     score,
		Ghosts:    p.Ghosts,
		Warnings:  resp.Chords.SATBErrors,
	}

	surface := opts.Surface
	var svgSurface *render.SVG
	if surface == nil {
		svgSurface = render.NewSVG()
		surface = svgSurface
	}
	if err := render.Draw(score, surface, render.Options{ColourVoices: opts.ColourVoices}); err != nil {
		return nil, fmt.Errorf("drawing score: %w", err)
	}
	if svgSurface != nil {
		res.SVG = svgSurface.Bytes()
	}
	return res, nil
}

// WriteHTML writes the rendered score and its warnings as an HTML page.
func (r *Result) WriteHTML(w io.Writer, title string) error {
	return render.Page(w, title, r.SVG, r.Warnings)
}

func parseHeader(resp model.AnalysisResponse) (voice.Mode, voice.TimeSignature, chord.Key, error) {
	var (
		ts  voice.TimeSignature
		key chord.Key
	)

	mode := voice.Piano
	if strings.TrimSpace(resp.DisplayForm) != "" {
		m, err := voice.ParseMode(resp.DisplayForm)
		if err != nil {
			return mode, ts, key, err
		}
		mode = m
	}

	ts, err := voice.ParseTimeSignature(resp.Time)
	if err != nil {
		return mode, ts, key, err
	}
	key, err = chord.ParseKey(resp.Key)
	if err != nil {
		return mode, ts, key, err
	}
	return mode, ts, key, nil
}

// IsInputError reports whether err was caused by the request rather than by
// drawing.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrNoChords,
		ErrTooManyChords,
		voice.ErrInvalidMode,
		voice.ErrInvalidTimeSignature,
		voice.ErrAccidentalMismatch,
		voice.ErrInvalidAccidental,
		voice.ErrTooManyNotes,
		chord.ErrInvalidPitch,
		chord.ErrInvalidKey,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
