package transcriber

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWhisperCppAdapter_ImplementsBatchAdapter(t *testing.T) {
	var _ BatchAdapter = (*WhisperCppAdapter)(nil)
}

func TestWhisperCppAdapter_EmptyAudio(t *testing.T) {
	adapter := NewWhisperCppAdapter("/nonexistent/model.bin", "it", 4)
	text, err := adapter.Transcribe(context.Background(), []byte{})
	if err != nil {
		t.Errorf("expected no error for empty audio, got: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text for empty audio, got: %q", text)
	}
}

func TestWhisperCppAdapter_MissingModel(t *testing.T) {
	adapter := NewWhisperCppAdapter("/nonexistent/path/model.bin", "it", 4)

	// one second of 16kHz 16-bit silence
	audioData := make([]byte, 32000)

	_, err := adapter.Transcribe(context.Background(), audioData)
	if err == nil {
		t.Fatal("expected error for missing model file")
	}
	if !strings.Contains(err.Error(), "model file not found") {
		t.Errorf("expected 'model file not found' error, got: %v", err)
	}
	if !IsTranscriptionError(err) {
		t.Errorf("expected transcriber.Error, got %T", err)
	}
}

func TestWhisperCppAdapter_BuildArgs(t *testing.T) {
	tests := []struct {
		name     string
		language string
		threads  int
		wantLang string
		wantT    bool
	}{
		{"italian with threads", "it", 8, "it", true},
		{"auto language", "", 4, "auto", true},
		{"default threads", "en", 0, "en", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewWhisperCppAdapter("/models/ggml-tiny.bin", tt.language, tt.threads)
			args := adapter.buildArgs("/tmp/in.wav")
			joined := strings.Join(args, " ")

			if !strings.Contains(joined, "-m /models/ggml-tiny.bin") {
				t.Errorf("missing model arg: %v", args)
			}
			if !strings.Contains(joined, "-l "+tt.wantLang) {
				t.Errorf("expected language %q in %v", tt.wantLang, args)
			}
			if !strings.Contains(joined, "-f /tmp/in.wav") {
				t.Errorf("missing input file arg: %v", args)
			}
			if got := strings.Contains(joined, "-t "); got != tt.wantT {
				t.Errorf("threads flag present = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestWhisperCppAdapter_MissingBinary(t *testing.T) {
	model := filepath.Join(t.TempDir(), "ggml-tiny.bin")
	if err := os.WriteFile(model, []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}

	adapter := NewWhisperCppAdapter(model, "it", 0)
	adapter.binary = "quotevoice-no-such-binary"

	_, err := adapter.Transcribe(context.Background(), make([]byte, 3200))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected binary not found error, got: %v", err)
	}
}

func TestWhisperCppAdapter_TempFileCleanup(t *testing.T) {
	// needs whisper-cli and a real model
	modelPath := os.Getenv("WHISPER_TEST_MODEL")
	if modelPath == "" {
		t.Skip("WHISPER_TEST_MODEL not set, skipping temp file cleanup test")
	}

	before, _ := filepath.Glob(filepath.Join(os.TempDir(), "quotevoice-input-*.wav"))

	adapter := NewWhisperCppAdapter(modelPath, "it", 4)
	_, _ = adapter.Transcribe(context.Background(), make([]byte, 32000))

	after, _ := filepath.Glob(filepath.Join(os.TempDir(), "quotevoice-input-*.wav"))
	if len(after) > len(before) {
		t.Errorf("temp files leaked: before=%d after=%d", len(before), len(after))
	}
}
