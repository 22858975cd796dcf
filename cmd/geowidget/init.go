package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/recera/geowidget/cmd/geowidget/internal/config"
	"github.com/recera/geowidget/cmd/geowidget/internal/wizard"
)

type initOptions struct {
	token         string
	language      string
	mode          string
	environment   string
	noInteractive bool
	force         bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a geowidget.yaml configuration",
		Long: `Creates the widget configuration. Without --no-interactive a terminal wizard
asks for the token, language, widget mode and asset environment; flags
prefill its answers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(cmd.OutOrStdout(), path, opts, wizard.Run)
		},
	}

	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "Widget token")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Widget language (pl, en, uk)")
	cmd.Flags().StringVar(&opts.mode, "config", "", "Widget mode (parcelCollect, parcelCollectPayment, parcelCollect247, parcelSend)")
	cmd.Flags().StringVarP(&opts.environment, "environment", "e", "", "Asset environment (production, sandbox)")
	cmd.Flags().BoolVar(&opts.noInteractive, "no-interactive", false, "Skip the wizard and use flags only")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func runInit(w io.Writer, path string, opts initOptions, interactive func(*config.Config) (*config.Config, error)) error {
	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	if opts.token != "" {
		cfg.Token = opts.token
	}
	if opts.language != "" {
		cfg.Language = opts.language
	}
	if opts.mode != "" {
		cfg.Config = opts.mode
	}
	if opts.environment != "" {
		cfg.Environment = opts.environment
	}

	if !opts.noInteractive {
		var err error
		cfg, err = interactive(cfg)
		if errors.Is(err, wizard.ErrAborted) {
			fmt.Fprintln(w, "Aborted, nothing written.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	slog.Debug("configuration written", "path", path, "language", cfg.Language, "config", cfg.Config)
	fmt.Fprintf(w, "Wrote %s. Start the demo with: geowidget serve -c %s\n", path, path)
	return nil
}
