package cmd

import (
	"github.com/jsphweid/chordstave/config"
	"github.com/jsphweid/chordstave/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
	logLevel   string

	cfg       = config.Default()
	appLogger = logger.New(nil)
)

var rootCmd = &cobra.Command{
	Use:   "chordstave",
	Short: "Renders chord progressions as piano or SATB notation",
	Long: `chordstave turns an analysed chord progression into music notation:
a piano grand staff or four-part SATB score, drawn as SVG.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath, envFile)
		if err != nil {
			return err
		}
		cfg = loaded
		level := cfg.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		return logger.SetLevel(appLogger, level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default .env if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
