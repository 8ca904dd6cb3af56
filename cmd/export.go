package cmd

import (
	"github.com/jsphweid/chordstave/midi"
	"github.com/jsphweid/chordstave/stave"
	"github.com/spf13/cobra"
)

var (
	exportInput inputFlags
	exportOut   string
	exportBPM   float64
)

func init() {
	exportInput.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "MIDI file to write (required)")
	exportCmd.Flags().Float64Var(&exportBPM, "bpm", 90, "tempo in quarter notes per minute")
	exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [response.json | -]",
	Short: "Writes each voice of a progression to a MIDI track",
	Long: `Splits a progression into voices the same way render does and writes a
standard MIDI file with one track per voice. Ghost notes become rests.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := exportInput.load(cmd, args)
		if err != nil {
			return err
		}
		res, err := stave.Build(resp, stave.Options{})
		if err != nil {
			return err
		}

		out, err := openOutput(cmd, exportOut)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := midi.WriteExport(out, res.Partition, exportBPM); err != nil {
			return err
		}
		appLogger.Info("exported", "file", exportOut, "voices", len(res.Partition.Voices), "chords", res.Partition.NumChords())
		return nil
	},
}
