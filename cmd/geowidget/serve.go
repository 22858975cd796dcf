package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/recera/geowidget/cmd/geowidget/internal/config"
	"github.com/recera/geowidget/cmd/geowidget/internal/site"
)

type serveOptions struct {
	configPath string
	host       string
	port       int
	watch      bool
}

func newServeCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the widget demo page and relay",
		Long: `Serves a page hosting the widget through the wasm client. Selected points are
reported back over the relay socket and can be listed at /api/selections.
Commands posted to /api/commands are forwarded to every connected widget.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.FileName, "Path to the configuration file")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (overrides the configuration)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (overrides the configuration)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload the configuration when the file changes")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := slog.Default()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	overrideServer(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := site.New(cfg, site.WithLogger(log), site.WithDebug(log.Enabled(ctx, slog.LevelDebug)))
	defer s.Close()

	if opts.watch {
		err := config.Watch(ctx, opts.configPath, log, func(next *config.Config) {
			overrideServer(next, opts)
			s.SetConfig(next)
		})
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving geowidget demo", "url", "http://"+cfg.Addr(), "config", opts.configPath)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// overrideServer applies command line address flags, which take precedence
// over the file
func overrideServer(cfg *config.Config, opts serveOptions) {
	if cfg.Server == nil {
		cfg.Server = config.Default().Server
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
}
