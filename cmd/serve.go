package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/energymix-cli/internal/dashboard"
	"github.com/KaramelBytes/energymix-cli/internal/render"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveAssets   string
	serveNotebook string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	b, err := loadBuilder(ctx)
	if err != nil {
		return err
	}
	c := cfg
	format, err := render.ParseFormat(c.ChartFormat)
	if err != nil {
		return err
	}
	opt := dashboard.Options{
		Builder:      b,
		Fraction:     c.SimulationFraction,
		Through:      c.ProjectionThrough,
		PageSize:     c.PageSize,
		Format:       format,
		AssetsDir:    c.AssetsDir,
		NotebookPath: c.NotebookPath,
	}
	if serveAssets != "" {
		opt.AssetsDir = serveAssets
	}
	if serveNotebook != "" {
		opt.NotebookPath = serveNotebook
	}
	if opt.AssetsDir != "" {
		if st, err := os.Stat(opt.AssetsDir); err != nil || !st.IsDir() {
			opt.AssetsDir = ""
		}
	}
	srv, err := dashboard.New(opt)
	if err != nil {
		return err
	}
	addr := c.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	return srv.ListenAndServe(ctx, addr)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr, e.g. :8050)")
	serveCmd.Flags().StringVar(&serveAssets, "assets", "", "directory served under /assets/ (overrides assets_dir)")
	serveCmd.Flags().StringVar(&serveNotebook, "notebook", "", "notebook shown on the last tab (overrides notebook_path)")
}
