package cmd

import (
	"github.com/jsphweid/chordstave/stave"
	"github.com/spf13/cobra"
)

var (
	renderInput  inputFlags
	renderFormat string
	renderOut    string
	renderColour bool
)

func init() {
	renderInput.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "svg", "svg, html or json")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default stdout)")
	renderCmd.Flags().BoolVar(&renderColour, "colour", false, "draw each voice in its own colour")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [response.json | -]",
	Short: "Renders a progression as SVG or HTML",
	Long: `Renders an analysis response (JSON, as returned by the analysis server)
or the chords of a MIDI file as notation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := renderInput.load(cmd, args)
		if err != nil {
			return err
		}
		res, err := stave.Build(resp, stave.Options{ColourVoices: renderColour || cfg.Render.ColourVoices})
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			appLogger.Warn("voice leading", "warning", w)
		}

		out, err := openOutput(cmd, renderOut)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := writeResult(out, res, renderFormat, cfg.Render.Title); err != nil {
			return err
		}
		appLogger.Debug("rendered", "bars", res.Partition.NumBars(), "chords", res.Partition.NumChords(), "ghosts", len(res.Ghosts))
		return nil
	},
}
