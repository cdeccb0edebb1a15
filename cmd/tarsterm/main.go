package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tarsterm/internal/client"
	"tarsterm/internal/config"
	"tarsterm/internal/mood"
	"tarsterm/internal/store"
	"tarsterm/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tarsterm: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is the normal case; the system environment wins anyway.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Local.LogPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st := store.New(logger, store.WithStatePath(cfg.Local.StatePath))
	if err := st.Load(); err != nil {
		logger.Warn("loading saved state failed, starting fresh", zap.Error(err))
	}

	eng := mood.NewEngine()
	api := client.NewAPI(cfg.Backend.APIURL, logger)

	// The backend's settings win over the local copy when reachable, same as
	// a fresh page load would.
	func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if remote, err := api.GetSettings(ctx); err == nil {
			st.UpdatePersonality(remote)
		} else {
			logger.Debug("remote settings unavailable", zap.Error(err))
		}
	}()

	streamer := client.NewStreamer(cfg.Backend.WSURL, st, eng, api, logger)
	streamer.SetStreamReplies(cfg.Backend.StreamReplies)

	syncer := client.NewSettingsSyncer(api, logger)

	model := ui.New(ui.Deps{
		Store:    st,
		Mood:     eng,
		Streamer: streamer,
		Syncer:   syncer,
		API:      api,
		Logger:   logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Socket frames arrive on the client's goroutines; Send is how they wake
	// the render loop.
	streamer.SetNotify(func() {
		program.Send(ui.StoreChangedMsg{})
	})
	streamer.Connect()

	_, runErr := program.Run()

	streamer.Close()
	syncer.Close()
	eng.Close()
	st.Save()

	return runErr
}

// newLogger writes structured logs to a file. The terminal owns stdout, so
// nothing may log there.
func newLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
