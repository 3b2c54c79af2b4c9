package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/riskboard-go/internal/catalog"
	"github.com/user/riskboard-go/internal/config"
	"github.com/user/riskboard-go/internal/dashboard"
	"github.com/user/riskboard-go/internal/render"
	"github.com/user/riskboard-go/internal/report"
	"github.com/user/riskboard-go/internal/sample"
	"github.com/user/riskboard-go/internal/server"
	"github.com/user/riskboard-go/pkg/gitutil"
)

var (
	// Used for flags.
	configPath     string
	logLevel       string
	outputFilePath string
	engineName     string
	width          int
	height         int
	seed           uint64
	repoPath       string
	listenAddr     string

	rootCmd = &cobra.Command{
		Use:   "riskboard",
		Short: "riskboard renders security and analytics dashboards.",
		Long: `A dashboard renderer for security risk and business analytics pages.
Charts are drawn server-side from sample data and either written to
html, json or xlsx reports or streamed live to a browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pagesCmd = &cobra.Command{
		Use:   "pages",
		Short: "Lists the dashboard pages and their charts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			ds := catalog.NewDataset(sample.New(1))
			for _, p := range dashboard.Pages() {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Title)
				for _, c := range p.Charts {
					series := strings.Join(c.Config(ds).SeriesNames(), ", ")
					fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.Name, c.Kind, c.Title, series)
				}
			}
			return tw.Flush()
		},
	}

	renderCmd = &cobra.Command{
		Use:   "render [PAGE] [html|json|xlsx]",
		Short: "Renders a dashboard page to a report file.",
		Long: `Mounts PAGE at the configured viewport size, draws every chart and writes
the result in the given format (default from config, html otherwise).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			page, err := dashboard.Lookup(args[0])
			if err != nil {
				return fmt.Errorf("%w (valid: %s)", err, strings.Join(pageNames(), ", "))
			}
			format := cfg.Report.Format
			if len(args) == 2 {
				format = args[1]
			}
			adapter, err := report.New(format)
			if err != nil {
				return err
			}

			if outputFilePath == "" {
				outputFilePath = cfg.Report.Output
			}
			if outputFilePath == "" {
				outputFilePath = report.DefaultFileName(page.Name, format)
			}
			absOutputFilePath, err := filepath.Abs(outputFilePath)
			if err != nil {
				return fmt.Errorf("invalid output file path '%s': %w", outputFilePath, err)
			}

			engine, err := render.New(cfg.Render.Engine)
			if err != nil {
				return err
			}
			engine.SetLogger(logger)
			sess, err := dashboard.Mount(page, dashboard.Options{
				Engine: engine,
				Seed:   cfg.Data.Seed,
				Width:  cfg.Render.Width,
				Height: cfg.Render.Height,
				Logger: logger,
			})
			if err != nil {
				return fmt.Errorf("failed to mount page %s: %w", page.Name, err)
			}
			snap := sess.Snapshot()
			sess.Unmount()

			if repoPath != "" {
				rev, err := gitutil.Describe(repoPath)
				if err != nil {
					logger.Warn("report provenance unavailable", "repo", repoPath, "error", err)
				} else {
					snap.Revision = rev
				}
			}

			if err := adapter.PrepareData(&snap); err != nil {
				return fmt.Errorf("failed to prepare %s report data: %w", format, err)
			}
			if err := adapter.Write(absOutputFilePath); err != nil {
				return fmt.Errorf("failed to write %s report to %s: %w", format, absOutputFilePath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s report generated successfully: %s\n", strings.ToUpper(format), absOutputFilePath)
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serves the live dashboards over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			engine, err := render.New(cfg.Render.Engine)
			if err != nil {
				return err
			}
			engine.SetLogger(logger)

			addr := cfg.Listen.Addr()
			if cmd.Flags().Changed("addr") {
				addr = listenAddr
			}

			srv := server.New(server.Config{Engine: engine, Seed: cfg.Data.Seed, Logger: logger})
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", addr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger.Info("serving dashboards", "addr", ln.Addr().String(), "engine", engine.Name())
			return serve(ctx, ln, srv, logger)
		},
	}
)

// serve runs the dashboard server on ln until ctx is done, then shuts the
// HTTP server down and ends the live sessions.
func serve(ctx context.Context, ln net.Listener, srv *server.Server, logger *slog.Logger) error {
	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		srv.Close()
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "sessions", srv.Sessions())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	srv.Close()
	return err
}

// setup loads configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, err := config.FindConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("engine") {
		cfg.Render.Engine = engineName
	}
	if flags.Changed("width") {
		cfg.Render.Width = width
	}
	if flags.Changed("height") {
		cfg.Render.Height = height
	}
	if flags.Changed("seed") {
		cfg.Data.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := config.NewLogger(os.Stderr, level)
	slog.SetDefault(logger)
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}
	return cfg, logger, nil
}

func pageNames() []string {
	var names []string
	for _, p := range dashboard.Pages() {
		names = append(names, p.Name)
	}
	return names
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: search ./riskboard.yaml, ~/.config/riskboard, /etc/riskboard)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")

	renderCmd.Flags().StringVarP(&outputFilePath, "output-file-path", "o", "", "Output file path for the report")
	renderCmd.Flags().StringVar(&engineName, "engine", render.GonumName, "Render engine: "+strings.Join(render.Names(), ", "))
	renderCmd.Flags().IntVar(&width, "width", 1280, "Viewport width in pixels")
	renderCmd.Flags().IntVar(&height, "height", 800, "Viewport height in pixels")
	renderCmd.Flags().Uint64Var(&seed, "seed", 0, "Sample data seed (0 draws new numbers)")
	renderCmd.Flags().StringVar(&repoPath, "repo", "", "Stamp the report with the git revision of this path")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "127.0.0.1:8080", "Listen address")
	serveCmd.Flags().StringVar(&engineName, "engine", render.GonumName, "Render engine: "+strings.Join(render.Names(), ", "))
	serveCmd.Flags().Uint64Var(&seed, "seed", 0, "Sample data seed (0 draws new numbers)")

	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
