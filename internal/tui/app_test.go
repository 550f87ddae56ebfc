package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leonardotrapani/quotevoice/internal/testutil"
)

func newTestApp(t *testing.T) (*App, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	app := NewApp(testutil.TestConfig(), testutil.NewMockTranscriberAdapter(), store)
	return app, store
}

func TestAppSubmit(t *testing.T) {
	app, store := newTestApp(t)
	app.runner.Type("Houston, we have a problem!")
	app.exponent = 3

	quit, err := app.handle(context.Background(), actionSubmit)
	if err != nil || quit {
		t.Fatalf("handle() = %v, %v", quit, err)
	}

	entries := store.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 saved entry, got %d", len(entries))
	}
	if entries[0].Metrics.PowerString() != "125" {
		t.Errorf("power = %s, want 125", entries[0].Metrics.PowerString())
	}
	if app.submitted != 3 {
		t.Errorf("submitted exponent = %d, want 3", app.submitted)
	}
	if app.runner.State().QuoteText != "" {
		t.Error("quote field should be cleared after submit")
	}
	if got := app.banner.drain(); !strings.Contains(got, "Quote saved") {
		t.Errorf("banner = %q", got)
	}
}

func TestAppSubmitEmpty(t *testing.T) {
	app, store := newTestApp(t)
	app.runner.Type("   ")
	before := app.submitted

	if _, err := app.handle(context.Background(), actionSubmit); err != nil {
		t.Fatal(err)
	}
	if store.Saves() != 0 {
		t.Error("empty quote must not be saved")
	}
	if app.submitted != before {
		t.Error("empty quote must not change the shown exponent")
	}
	if got := app.banner.drain(); !strings.Contains(got, "empty") {
		t.Errorf("banner = %q", got)
	}
}

func TestAppSubmitSaveFailure(t *testing.T) {
	app, store := newTestApp(t)
	store.SaveErr = errors.New("disk full")
	app.runner.Type("one two")

	quit, err := app.handle(context.Background(), actionSubmit)
	if err != nil || quit {
		t.Fatalf("save failure should not end the session: %v, %v", quit, err)
	}
	if got := app.banner.drain(); !strings.Contains(got, "Could not save") {
		t.Errorf("banner = %q", got)
	}
}

func TestAppFreshAndQuit(t *testing.T) {
	app, _ := newTestApp(t)
	app.runner.Record([]byte("take"))

	if _, err := app.handle(context.Background(), actionFresh); err != nil {
		t.Fatal(err)
	}
	st := app.runner.State()
	if st.RecordingEpoch != 1 || st.AudioPayload != nil {
		t.Errorf("fresh recording not applied: epoch=%d payload=%v", st.RecordingEpoch, st.AudioPayload)
	}

	quit, err := app.handle(context.Background(), actionQuit)
	if err != nil || !quit {
		t.Errorf("quit = %v, %v", quit, err)
	}
}

func TestNewAppClampsExponent(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Metrics.Exponent = 50
	cfg.Metrics.MaxExponent = 10

	app := NewApp(cfg, testutil.NewMockTranscriberAdapter(), testutil.NewMemoryStore())
	if app.exponent != 10 {
		t.Errorf("exponent = %d, want 10", app.exponent)
	}
}

func TestLoadWAV(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.wav")
	if err := os.WriteFile(good, testutil.WAV(t, 200*time.Millisecond, 16000, 1, 440), 0644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(bad, []byte("not audio"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid recording", good, false},
		{"empty path", "", true},
		{"missing file", filepath.Join(dir, "missing.wav"), true},
		{"not a wav", bad, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := loadWAV(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadWAV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(data) == 0 {
				t.Error("expected payload")
			}
		})
	}
}
