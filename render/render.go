// Package render draws a laid-out score onto a drawing surface.
package render

import (
	"errors"

	"github.com/jsphweid/chordstave/layout"
	"github.com/jsphweid/chordstave/voice"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var ErrNoScore = errors.New("no score to draw")

// Surface is a drawing-surface handle. Draw calls Begin once, then every
// stave, connector, note and label in that order, then End.
type Surface interface {
	Begin(width, height int)
	Stave(s layout.Stave)
	Connector(c layout.Connector)
	Note(n layout.PlacedNote, style NoteStyle)
	Label(l layout.PlacedLabel)
	End() error
}

// NoteStyle is how a single note is drawn. An empty Colour means black.
type NoteStyle struct {
	Hidden bool
	Colour string
}

type Options struct {
	// ColourVoices draws each voice in its own colour.
	ColourVoices bool
}

// Draw renders score onto surface. Notes whose id is listed in the score's
// ghosts are drawn hidden.
func Draw(score *layout.Score, surface Surface, opts Options) error {
	if score == nil {
		return ErrNoScore
	}

	hidden := make(map[string]bool, len(score.Ghosts))
	for _, id := range score.Ghosts {
		hidden[id] = true
	}

	var colours []string
	if opts.ColourVoices {
		colours = VoiceColours(voiceCount(score.Mode))
	}

	surface.Begin(score.Width, score.Height)
	for _, st := range score.Staves {
		surface.Stave(st)
	}
	for _, c := range score.Connectors {
		surface.Connector(c)
	}
	for _, n := range score.Notes {
		style := NoteStyle{Hidden: hidden[n.Id] || n.Ghost}
		if n.Voice < len(colours) {
			style.Colour = colours[n.Voice]
		}
		surface.Note(n, style)
	}
	for _, l := range score.Labels {
		surface.Label(l)
	}
	return surface.End()
}

// VoiceColours spreads n hues evenly around the colour wheel.
func VoiceColours(n int) []string {
	res := make([]string, 0, n)
	for i := 0; i < n; i++ {
		c := colorful.Hsv(float64(i)*360/float64(n), 0.7, 0.6)
		res = append(res, c.Hex())
	}
	return res
}

func voiceCount(mode voice.Mode) int {
	if mode == voice.SATB {
		return 4
	}
	return 2
}
