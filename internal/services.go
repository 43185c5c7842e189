package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/tempus/internal/settings"
	"github.com/starford/tempus/internal/storage"
	"github.com/starford/tempus/internal/timestore"
	"github.com/starford/tempus/internal/tracker"
)

// NewLogger creates the structured JSON logger used across the application.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// Services bundles the storage and domain components built from a Config.
type Services struct {
	Provider storage.Provider
	// FS is set when the fs driver is in use; it is what the watcher observes.
	FS       *storage.FS
	Settings *settings.Service
	Store    *timestore.Store
	Tracker  *tracker.Service
}

// OpenServices opens the configured storage backend and wires the domain
// services on top of it. Extra tracker options are applied last.
func OpenServices(cfg *Config, logger *slog.Logger, opts ...tracker.Option) (*Services, error) {
	svc := &Services{}

	switch cfg.Storage.Driver {
	case StorageDriverFS:
		fs, err := storage.NewFS(cfg.Storage.FS.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		svc.Provider, svc.FS = fs, fs
	default:
		if dir := filepath.Dir(cfg.Storage.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		db, err := storage.OpenSQLite(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		svc.Provider = db
	}

	loc := cfg.App.Location()
	defaults := settings.Settings{FirstDayOfWeek: time.Weekday(cfg.Calendar.FirstDayOfWeek)}
	svc.Settings = settings.NewService(svc.Provider, defaults)
	svc.Store = timestore.New(svc.Provider, svc.Settings, timestore.WithLocation(loc))

	trackerOpts := append([]tracker.Option{
		tracker.WithLocation(loc),
		tracker.WithLogger(logger),
	}, opts...)
	svc.Tracker = tracker.New(svc.Store, svc.Settings, trackerOpts...)

	return svc, nil
}

// Close releases the storage backend.
func (s *Services) Close() error {
	if s.Provider == nil {
		return nil
	}
	if err := s.Provider.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
