package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jsphweid/chordstave/chord"
	"github.com/jsphweid/chordstave/midi"
	"github.com/jsphweid/chordstave/model"
	"github.com/jsphweid/chordstave/stave"
	"github.com/spf13/cobra"
)

// inputFlags are shared by every command that reads a progression.
type inputFlags struct {
	midiPath string
	key      string
	time     string
	mode     string
	minNotes int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.midiPath, "midi", "", "read chords from a MIDI file instead of JSON")
	cmd.Flags().StringVar(&f.key, "key", "C", "key of a MIDI input")
	cmd.Flags().StringVar(&f.time, "time", "4/4", "time signature of a MIDI input")
	cmd.Flags().StringVar(&f.mode, "mode", "piano", "piano or SATB")
	cmd.Flags().IntVar(&f.minNotes, "min-notes", 2, "fewest simultaneous MIDI notes that count as a chord")
}

// load reads the progression named by args[0] (an analysis response as
// JSON, "-" for stdin) or by --midi.
func (f *inputFlags) load(cmd *cobra.Command, args []string) (model.AnalysisResponse, error) {
	if f.midiPath != "" {
		file, err := os.Open(f.midiPath)
		if err != nil {
			return model.AnalysisResponse{}, err
		}
		defer file.Close()
		return responseFromMidi(file, f.key, f.time, f.mode, f.minNotes)
	}

	if len(args) != 1 {
		return model.AnalysisResponse{}, fmt.Errorf("need a JSON file argument or --midi")
	}
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return model.AnalysisResponse{}, err
		}
		defer file.Close()
		r = file
	}
	return decodeResponse(r)
}

func decodeResponse(r io.Reader) (model.AnalysisResponse, error) {
	var resp model.AnalysisResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return resp, fmt.Errorf("could not decode analysis response: %w", err)
	}
	return resp, nil
}

func responseFromMidi(r io.Reader, key, time, mode string, minNotes int) (model.AnalysisResponse, error) {
	k, err := chord.ParseKey(key)
	if err != nil {
		return model.AnalysisResponse{}, err
	}
	chords, err := midi.ReadChords(r, k, minNotes)
	if err != nil {
		return model.AnalysisResponse{}, err
	}
	return model.AnalysisResponse{
		Chords:      model.ProgressionInfo{Chords: chords},
		Key:         key,
		Time:        time,
		DisplayForm: mode,
	}, nil
}

// writeResult writes res to w as "svg", "html" or "json".
func writeResult(w io.Writer, res *stave.Result, format, title string) error {
	switch strings.ToLower(format) {
	case "", "svg":
		_, err := w.Write(res.SVG)
		return err
	case "html":
		return res.WriteHTML(w, title)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(renderResponse(res))
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderResponse(res *stave.Result) model.RenderResponse {
	ghosts := res.Ghosts
	if ghosts == nil {
		ghosts = []string{}
	}
	return model.RenderResponse{
		Mode:      res.Partition.Mode.String(),
		NumBars:   res.Partition.NumBars(),
		NumChords: res.Partition.NumChords(),
		Ghosts:    ghosts,
		Warnings:  res.Warnings,
		SVG:       string(res.SVG),
	}
}

// openOutput returns stdout for "" or "-", otherwise a created file.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
