package testutil

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leonardotrapani/quotevoice/internal/audio"
	"github.com/leonardotrapani/quotevoice/internal/config"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
	"github.com/leonardotrapani/quotevoice/internal/recording"
)

// TestConfig returns a valid configuration for testing
func TestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Transcription.Model = "/models/ggml-tiny.bin"
	cfg.Transcription.Threads = 1
	cfg.Notifications.Type = "none"
	return cfg
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return configPath
}

// MockTranscriberAdapter implements transcriber.BatchAdapter for testing
type MockTranscriberAdapter struct {
	TranscribeFunc func(ctx context.Context, audioData []byte) (string, error)

	calls    atomic.Int32
	mu       sync.Mutex
	payloads [][]byte
}

func NewMockTranscriberAdapter() *MockTranscriberAdapter {
	return &MockTranscriberAdapter{}
}

func (m *MockTranscriberAdapter) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.payloads = append(m.payloads, audioData)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioData)
	}
	return "mock transcription", nil
}

// Calls reports how many times Transcribe ran.
func (m *MockTranscriberAdapter) Calls() int {
	return int(m.calls.Load())
}

// Payloads returns every payload passed to Transcribe, in order.
func (m *MockTranscriberAdapter) Payloads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.payloads))
	copy(out, m.payloads)
	return out
}

// Result is one scripted engine answer.
type Result struct {
	Text string
	Err  error
}

// ScriptedAdapter returns Results in order and repeats the last one.
func ScriptedAdapter(results ...Result) *MockTranscriberAdapter {
	var mu sync.Mutex
	next := 0
	return &MockTranscriberAdapter{
		TranscribeFunc: func(ctx context.Context, audioData []byte) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(results) == 0 {
				return "", nil
			}
			r := results[next]
			if next < len(results)-1 {
				next++
			}
			return r.Text, r.Err
		},
	}
}

// MemoryStore is a quotelog.Store kept in memory.
type MemoryStore struct {
	LoadErr error
	SaveErr error

	mu     sync.Mutex
	table  quotelog.Table
	saves  int
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (quotelog.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	out := make(quotelog.Table, len(s.table))
	copy(out, s.table)
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, table quotelog.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.table = make(quotelog.Table, len(table))
	copy(s.table, table)
	s.saves++
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Entries() quotelog.Table {
	table, _ := s.Load(context.Background())
	return table
}

// Note is one notification captured by RecordingNotifier.
type Note struct {
	Title   string
	Message string
	IsError bool
}

// RecordingNotifier implements notify.Notifier and remembers every call.
type RecordingNotifier struct {
	mu    sync.Mutex
	notes []Note
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (r *RecordingNotifier) Notify(title, message string) {
	r.mu.Lock()
	r.notes = append(r.notes, Note{Title: title, Message: message})
	r.mu.Unlock()
}

func (r *RecordingNotifier) Error(msg string) {
	r.mu.Lock()
	r.notes = append(r.notes, Note{Message: msg, IsError: true})
	r.mu.Unlock()
}

func (r *RecordingNotifier) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Note, len(r.notes))
	copy(out, r.notes)
	return out
}

func (r *RecordingNotifier) Messages() []string {
	var out []string
	for _, n := range r.Notes() {
		out = append(out, n.Message)
	}
	return out
}

// WAV builds a 16-bit sine tone payload. freq varies the content so distinct
// fixtures have distinct fingerprints.
func WAV(t *testing.T, d time.Duration, sampleRate, channels int, freq float64) []byte {
	t.Helper()

	frames := int(d.Seconds() * float64(sampleRate))
	samples := make([]int, 0, frames*channels)
	for i := 0; i < frames; i++ {
		v := int(8000 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		for c := 0; c < channels; c++ {
			samples = append(samples, v)
		}
	}

	payload, err := audio.Encode(audio.Clip{
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   16,
		Samples:    samples,
	})
	if err != nil {
		t.Fatalf("encode WAV fixture: %v", err)
	}
	return payload
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Condition not met within %v", timeout)
}

// MockSource implements recording.Source for testing
type MockSource struct {
	Frames     []recording.Frame
	StartError error

	mu        sync.Mutex
	recording atomic.Bool
	stopCh    chan struct{}
}

// NewMockSource replays pcm as a single frame.
func NewMockSource(pcm []byte) *MockSource {
	return &MockSource{
		Frames: []recording.Frame{{Data: pcm, Timestamp: time.Now()}},
	}
}

func (m *MockSource) Start(ctx context.Context) (<-chan recording.Frame, <-chan error, error) {
	if m.StartError != nil {
		return nil, nil, m.StartError
	}

	m.mu.Lock()
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	m.recording.Store(true)

	frameCh := make(chan recording.Frame, len(m.Frames)+1)
	errCh := make(chan error, 1)

	go func() {
		defer close(frameCh)
		defer close(errCh)
		defer m.recording.Store(false)

		for _, frame := range m.Frames {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case frameCh <- frame:
			}
		}

		// keep channel open until stopped
		select {
		case <-ctx.Done():
		case <-stopCh:
		}
	}()

	return frameCh, errCh, nil
}

func (m *MockSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}
	return nil
}

func (m *MockSource) IsRecording() bool {
	return m.recording.Load()
}
