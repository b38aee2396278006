package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/openclaw/qrgen/api"
	"github.com/openclaw/qrgen/config"
	"github.com/openclaw/qrgen/controller"
	"github.com/openclaw/qrgen/i18n"
	"github.com/openclaw/qrgen/launch"
	"github.com/openclaw/qrgen/render"
	"github.com/openclaw/qrgen/session"
	"github.com/openclaw/qrgen/store"
	"github.com/openclaw/qrgen/web"
)

var version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "qrgen",
		Short:         "Local QR code studio with logo support",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is normal.
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
	}

	// --- serve command -------------------------------------------------------
	var (
		configPath string
		servePort  int
		noOpen     bool
	)
	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Serve the QR studio and open it in the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = servePort
			}
			if noOpen {
				cfg.OpenBrowser = false
			}
			return runServe(cfg)
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "qrgen.yaml", "Path to config file (.yaml or .toml)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&noOpen, "no-open", false, "Do not open the browser")
	root.AddCommand(serveCmd)

	// --- status command ------------------------------------------------------
	var statusAddr string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check a running studio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.OutOrStdout(), statusAddr)
		},
	}
	statusCmd.Flags().StringVar(&statusAddr, "addr", "http://localhost:3000", "Studio HTTP address")
	root.AddCommand(statusCmd)

	// --- offline commands ----------------------------------------------------
	root.AddCommand(newRenderCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newLanguagesCmd())

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qrgen %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		printFailure(os.Stderr, err)
		os.Exit(1)
	}
}

// runServe is the main service entrypoint that wires all components together.
func runServe(cfg *config.Config) error {
	// 1. Setup logger
	log := newLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(log)

	printBanner(os.Stdout, version)

	// 2. Load string tables
	catalog, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("load languages: %w", err)
	}
	if !catalog.Has(cfg.DefaultLanguage) {
		log.Warn("unknown default language, using fallback", "language", cfg.DefaultLanguage, "fallback", catalog.Fallback())
		cfg.DefaultLanguage = catalog.Fallback()
	}

	// 3. Open export history
	var history *store.ExportStore
	if cfg.History.Enabled {
		if err := cfg.EnsureDataDir(); err != nil {
			return fmt.Errorf("ensure data dir: %w", err)
		}
		history, err = store.NewExportStore(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("open export history: %w", err)
		}
		defer history.Close()
		log.Info("export history enabled", "path", cfg.HistoryPath(), "limit", cfg.History.Limit)
	}

	// 4. Session manager
	pipeline := render.NewPipeline(log)
	sessions := session.NewManager(func(lang string) (*controller.Controller, error) {
		return controller.New(controller.Options{
			Renderer:        pipeline,
			Catalog:         catalog,
			Language:        lang,
			PixelSize:       cfg.Defaults.PixelSize,
			DarkColor:       cfg.Defaults.DarkColor,
			LightColor:      cfg.Defaults.LightColor,
			NotificationTTL: cfg.NotificationTTL.Duration,
			Log:             log,
		})
	}, cfg.SessionIdleTTL.Duration, log)
	defer sessions.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session.StartSweepLoop(ctx, sessions, cfg.SessionSweepInterval.Duration, log)

	// 5. Page assets
	templates, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	static, err := web.Static(cfg.StaticDir)
	if err != nil {
		return fmt.Errorf("open static dir: %w", err)
	}

	// 6. Bind listener
	ln, err := launch.Listen(cfg.Host, cfg.Port, cfg.PortAttempts, log)
	if err != nil {
		return err
	}
	url := launch.URL(ln)

	// 7. Start HTTP server
	srv := &http.Server{
		Handler: api.NewRouter(&api.Server{
			Sessions:        sessions,
			Catalog:         catalog,
			DefaultLanguage: cfg.DefaultLanguage,
			History:         history,
			HistoryLimit:    cfg.History.Limit,
			Templates:       templates,
			Static:          static,
			Log:             log,
			Version:         version,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	printServing(os.Stdout, url, cfg.OpenBrowser)
	if cfg.OpenBrowser && !launch.OpenBrowser(url, log) {
		printManualOpen(os.Stdout, url)
	}

	// 8. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		log.Error("HTTP server error", "error", err)
		return err
	}

	fmt.Fprintln(os.Stdout, styleWarning.Render("\n👋 Shutting down..."))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	fmt.Fprintln(os.Stdout, styleSuccess.Render(iconSuccess+" Goodbye!"))
	return nil
}

// runStatus queries the studio health endpoint.
func runStatus(w io.Writer, addr string) error {
	resp, err := http.Get(addr + "/api/healthz")
	if err != nil {
		return fmt.Errorf("failed to reach studio at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("studio returned %s", resp.Status)
	}
	fmt.Fprintln(w, string(body))
	return nil
}
