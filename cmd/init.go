package cmd

import (
	"github.com/jsphweid/chordstave/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Writes a config file holding the defaults",
	Args:  cobra.MaximumNArgs(1),
	// the file being written may be the one --config points at
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "chordstave.toml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteExample(path); err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", path)
		return nil
	},
}
