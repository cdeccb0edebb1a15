package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tarsterm/internal/model/settings"
)

const settingsSyncDelay = 500 * time.Millisecond

// SettingsSyncer pushes personality changes to the backend after a trailing
// debounce: each change resets the window, so a slider drag produces exactly
// one request carrying the final values. Failures are logged, never retried,
// never surfaced.
type SettingsSyncer struct {
	api    *API
	logger *zap.Logger
	delay  time.Duration

	mu      sync.Mutex
	pending settings.Personality
	timer   *time.Timer
	closed  bool
}

// NewSettingsSyncer builds a syncer with the standard 500ms window.
func NewSettingsSyncer(api *API, logger *zap.Logger) *SettingsSyncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsSyncer{api: api, logger: logger, delay: settingsSyncDelay}
}

// Queue records the latest settings and (re)starts the debounce window.
func (y *SettingsSyncer) Queue(p settings.Personality) {
	y.mu.Lock()
	defer y.mu.Unlock()

	if y.closed {
		return
	}
	y.pending = p
	if y.timer != nil {
		y.timer.Stop()
	}
	y.timer = time.AfterFunc(y.delay, y.flush)
}

func (y *SettingsSyncer) flush() {
	y.mu.Lock()
	if y.closed {
		y.mu.Unlock()
		return
	}
	p := y.pending
	y.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := y.api.PutSettings(ctx, SettingsPatch{
		Humor:      p.Humor,
		Honesty:    p.Honesty,
		Discretion: p.Discretion,
	})
	if err != nil {
		y.logger.Warn("settings sync failed", zap.Error(err))
	}
}

// Close cancels any pending sync.
func (y *SettingsSyncer) Close() {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.closed = true
	if y.timer != nil {
		y.timer.Stop()
		y.timer = nil
	}
}
