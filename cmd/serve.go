package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/chordstave/analysis"
	"github.com/jsphweid/chordstave/db"
	"github.com/spf13/cobra"
)

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the render API over HTTP",
	Long: `Serves the render API:

  GET  /health
  POST /render?format=svg|html|json
  POST /render/midi?key=&time=&mode=&format=
  POST /analyze
  POST /scores
  GET  /scores/{id}?format=svg|html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		store, err := db.New(cfg.StoreOptions())
		if err != nil {
			return err
		}
		defer store.Close()

		var client *analysis.Client
		if cfg.Analysis.URL != "" {
			client = analysis.NewClient(cfg.Analysis.URL, cfg.AnalysisTimeout())
		}
		server := NewServer(store, appLogger, ServerOptions{
			Title:        cfg.Render.Title,
			ColourVoices: cfg.Render.ColourVoices,
			CORSOrigins:  cfg.Server.CORSOrigins,
			Analysis:     client,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return listen(ctx, cfg.Addr(), server.Router())
	},
}

// listen serves handler on addr until ctx is done, then drains open
// requests for up to the configured shutdown timeout.
func listen(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errs := make(chan error, 1)
	go func() {
		appLogger.Info("listening", "addr", addr, "store", cfg.Store.Driver)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
