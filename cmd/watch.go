package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/chordstave/stave"
	"github.com/spf13/cobra"
)

var (
	watchInput    inputFlags
	watchFormat   string
	watchOut      string
	watchInterval time.Duration
	watchQuiet    time.Duration
)

func init() {
	watchInput.register(watchCmd)
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "html", "svg, html or json")
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "output file (required)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 250*time.Millisecond, "how often to check the input for changes")
	watchCmd.Flags().DurationVar(&watchQuiet, "quiet", 500*time.Millisecond, "wait this long after the last change before rendering")
	watchCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch response.json",
	Short: "Re-renders a progression whenever its file changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := watchInput.midiPath
		if path == "" {
			if len(args) != 1 || args[0] == "-" {
				return fmt.Errorf("watch needs a file, not stdin")
			}
			path = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rerender := func() {
			if err := renderToFile(cmd, args); err != nil {
				appLogger.Error("render failed", "file", path, "err", err)
				return
			}
			appLogger.Info("rendered", "file", path, "out", watchOut)
		}
		rerender()
		return watchFile(ctx, path, watchInterval, watchQuiet, rerender)
	},
}

func renderToFile(cmd *cobra.Command, args []string) error {
	resp, err := watchInput.load(cmd, args)
	if err != nil {
		return err
	}
	res, err := stave.Build(resp, stave.Options{ColourVoices: cfg.Render.ColourVoices})
	if err != nil {
		return err
	}
	out, err := os.Create(watchOut)
	if err != nil {
		return err
	}
	defer out.Close()
	return writeResult(out, res, watchFormat, cfg.Render.Title)
}

// watchFile polls path's modification time and calls onChange once the file
// has been quiet for the given duration. It returns when ctx is done.
func watchFile(ctx context.Context, path string, interval, quiet time.Duration, onChange func()) error {
	debounced := debounce.New(quiet)

	stat, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := stat.ModTime()
	lastSize := stat.Size()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stat, err := os.Stat(path)
			if err != nil {
				// editors often replace files by rename; try again next tick
				appLogger.Debug("stat failed", "file", path, "err", err)
				continue
			}
			if stat.ModTime().Equal(lastMod) && stat.Size() == lastSize {
				continue
			}
			lastMod, lastSize = stat.ModTime(), stat.Size()
			debounced(onChange)
		}
	}
}
