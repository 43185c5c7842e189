package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/tempus/internal/apperr"
	"github.com/starford/tempus/internal/storage"
)

func tempService(t *testing.T) (*Service, storage.Provider) {
	t.Helper()
	kv, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewService(kv, Default()), kv
}

func TestGetSettings_DefaultWhenMissing(t *testing.T) {
	svc, _ := tempService(t)
	got, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.FirstDayOfWeek != time.Sunday {
		t.Errorf("first day = %v, want Sunday", got.FirstDayOfWeek)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	svc, kv := tempService(t)
	ctx := context.Background()

	if err := svc.SaveSettings(ctx, Settings{FirstDayOfWeek: time.Monday}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	raw, err := kv.Get(Key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(raw) != `{"firstDayOfWeek":1}` {
		t.Errorf("stored = %s", raw)
	}

	got, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.FirstDayOfWeek != time.Monday {
		t.Errorf("first day = %v, want Monday", got.FirstDayOfWeek)
	}
}

func TestSaveSettings_RejectsOutOfRange(t *testing.T) {
	svc, _ := tempService(t)
	err := svc.SaveSettings(context.Background(), Settings{FirstDayOfWeek: 7})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestGetSettings_CachedUntilInvalidated(t *testing.T) {
	svc, kv := tempService(t)
	ctx := context.Background()

	if _, err := svc.GetSettings(ctx); err != nil {
		t.Fatal(err)
	}
	// Simulate another process editing the stored value.
	_ = kv.Set(Key, []byte(`{"firstDayOfWeek":6}`))

	got, _ := svc.GetSettings(ctx)
	if got.FirstDayOfWeek != time.Sunday {
		t.Errorf("expected cached Sunday, got %v", got.FirstDayOfWeek)
	}

	svc.Invalidate()
	got, _ = svc.GetSettings(ctx)
	if got.FirstDayOfWeek != time.Saturday {
		t.Errorf("expected Saturday after invalidate, got %v", got.FirstDayOfWeek)
	}
}

func TestGetSettings_CorruptValue(t *testing.T) {
	svc, kv := tempService(t)
	_ = kv.Set(Key, []byte(`{"firstDayOfWeek":9}`))
	if _, err := svc.GetSettings(context.Background()); err == nil {
		t.Error("expected validation error for stored value")
	}
}
