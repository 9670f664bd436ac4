package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/brochure/internal/app"
	"github.com/ayusman/brochure/internal/config"
	"github.com/ayusman/brochure/internal/gesture"
	"github.com/ayusman/brochure/internal/logger"
	"github.com/ayusman/brochure/internal/server"
	"github.com/ayusman/brochure/internal/store"
	"github.com/ayusman/brochure/internal/tray"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Error("brochure stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := logger.Named("main")

	dbPath := cfg.DBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	a, err := app.New(app.Config{Settings: cfg, Store: st})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Prepare(ctx); err != nil {
		return err
	}

	webDir := cfg.Server.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.Info("serving viewer", zap.String("dir", webDir))
	}

	srv := server.New(server.Config{
		StaticDir:     webDir,
		Session:       a.Session(),
		Pages:         a.PageCount(),
		Navigator:     a.Dispatcher(),
		State:         a.State,
		Textures:      a.Textures(),
		Gestures:      a,
		Hub:           a.Hub(),
		Preview:       a.Preview(),
		Topics:        st.Topics(),
		OnTopicChange: a.Textures().Invalidate,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx, cfg.Server.Addr) })

	if cfg.Server.Tray {
		t := tray.New(a.Dispatcher(), a.GesturesEnabled())
		t.SetStatus(string(a.Status()))
		t.OnToggle(func(enabled bool) {
			if err := a.SetGesturesEnabled(enabled); err != nil {
				log.Error("toggle gestures", zap.Error(err))
			}
		})
		a.OnStatus(func(s gesture.Status) { t.SetStatus(string(s)) })
		t.OnOpen(func() {
			if err := browser.OpenURL(viewerURL(cfg.Server.Addr)); err != nil {
				log.Warn("open viewer", zap.Error(err))
			}
		})
		t.OnQuit(stop)

		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		// The tray owns the main thread until it quits.
		t.Run()
		stop()
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("brochure stopped")
	return nil
}

// viewerURL turns a listen address into a browsable URL.
func viewerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	return "http://" + addr + "/"
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.brochure/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".brochure", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
