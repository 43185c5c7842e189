package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(kind, key string) {
	r.mu.Lock()
	r.events = append(r.events, kind+":"+key)
	r.mu.Unlock()
}

func (r *recorder) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func startWatch(t *testing.T, s *FS) *recorder {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rec := &recorder{}
	go Watch(ctx, s, 50*time.Millisecond, logger, rec.record)
	time.Sleep(100 * time.Millisecond)
	return rec
}

func TestWatch_ReportsExternalWrite(t *testing.T) {
	s := tempFS(t)
	rec := startWatch(t, s)

	_ = os.WriteFile(filepath.Join(s.Root(), "settings.json"), []byte(`{"firstDayOfWeek":1}`), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:settings")
	}, "created event not reported")
}

func TestWatch_NewYearDirectory(t *testing.T) {
	s := tempFS(t)
	rec := startWatch(t, s)

	if err := s.Set("2018/4", []byte(`{"checkings":[]}`)); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:2018/4")
	}, "key in new directory not reported")
}

func TestWatch_UnchangedContentSuppressed(t *testing.T) {
	s := tempFS(t)
	_ = s.Set("2018/1", []byte("same"))
	rec := startWatch(t, s)

	_ = s.Set("2018/1", []byte("same"))
	_ = s.Set("2018/1", []byte("different"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("updated:2018/1")
	}, "update not reported")

	time.Sleep(100 * time.Millisecond)
	if n := rec.count("updated:2018/1"); n != 1 {
		t.Errorf("updated events = %d, want 1", n)
	}
}

func TestWatch_Delete(t *testing.T) {
	s := tempFS(t)
	_ = s.Set("2018/0", []byte("x"))
	rec := startWatch(t, s)

	if err := s.Delete("2018/0"); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:2018/0")
	}, "delete not reported")
}
