package cmd

import (
	"fmt"

	"github.com/jsphweid/chordstave/analysis"
	"github.com/jsphweid/chordstave/stave"
	"github.com/spf13/cobra"
)

var (
	analyzeKey    string
	analyzeTime   string
	analyzeMode   string
	analyzeFormat string
	analyzeOut    string
	analyzeURL    string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeKey, "key", "C", "key, upper case tonic for major and lower case for minor")
	analyzeCmd.Flags().StringVar(&analyzeTime, "time", "4/4", "time signature")
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "piano", "piano or SATB")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "svg", "svg, html or json")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "output file (default stdout)")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "analysis endpoint (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze CHORD...",
	Short: "Sends chords to the analysis server and renders the result",
	Example: `  chordstave analyze C Am F G7 --key C --time 4/4 -f html -o progression.html
  chordstave analyze c G7 c --key c --mode SATB`,
	Args: cobra.RangeArgs(1, 20),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := analyzeURL
		if url == "" {
			url = cfg.Analysis.URL
		}
		client := analysis.NewClient(url, cfg.AnalysisTimeout())

		resp, err := client.Analyze(cmd.Context(), analysis.Form{
			Chords:      args,
			Key:         analyzeKey,
			Time:        analyzeTime,
			DisplayForm: analyzeMode,
		})
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		res, err := stave.Build(resp, stave.Options{ColourVoices: cfg.Render.ColourVoices})
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			appLogger.Warn("voice leading", "warning", w)
		}

		out, err := openOutput(cmd, analyzeOut)
		if err != nil {
			return err
		}
		defer out.Close()
		return writeResult(out, res, analyzeFormat, cfg.Render.Title)
	},
}
