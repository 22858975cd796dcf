package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/recera/geowidget/cmd/geowidget/internal/config"
	"github.com/recera/geowidget/cmd/geowidget/internal/site"
	"github.com/recera/geowidget/pkg/renderer/html"
)

type renderOptions struct {
	configPath string
	page       bool
}

func newRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the server-rendered widget markup",
		Long: `Prints the asset tags and the widget markup for the configuration, ready to be
pasted into a template. With --page the full demo document is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.FileName, "Path to the configuration file")
	cmd.Flags().BoolVar(&opts.page, "page", false, "Render the full demo page")

	return cmd
}

func runRender(w io.Writer, opts renderOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if opts.page {
		page, err := site.Page(cfg, site.BootFor(cfg, site.RelayPath, false))
		if err != nil {
			return err
		}
		if err := html.RenderDocument(w, page); err != nil {
			return fmt.Errorf("render page: %w", err)
		}
	} else if err := html.NewHTMLApplier(w).Apply(nil, site.Fragment(cfg)); err != nil {
		return fmt.Errorf("render widget: %w", err)
	}

	_, err = fmt.Fprintln(w)
	return err
}
