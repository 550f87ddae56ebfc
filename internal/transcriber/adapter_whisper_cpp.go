package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/leonardotrapani/quotevoice/internal/logging"
)

const whisperCppProvider = "whisper-cpp"

// WhisperCppAdapter runs the local whisper.cpp CLI. It never touches the network.
type WhisperCppAdapter struct {
	modelPath string
	language  string
	threads   int
	binary    string
}

// NewWhisperCppAdapter creates a new whisper-cpp adapter
// modelPath: full path to a ggml model file (e.g. ggml-tiny.bin)
// lang: language hint, empty for auto-detect
// threads: number of CPU threads (0 lets whisper-cli decide)
func NewWhisperCppAdapter(modelPath, lang string, threads int) *WhisperCppAdapter {
	return &WhisperCppAdapter{
		modelPath: modelPath,
		language:  lang,
		threads:   threads,
		binary:    "whisper-cli",
	}
}

func (a *WhisperCppAdapter) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	log := logging.For("whisper-cpp")

	if len(audioData) == 0 {
		return "", nil
	}

	if _, err := os.Stat(a.modelPath); os.IsNotExist(err) {
		return "", newError(whisperCppProvider, fmt.Errorf("model file not found: %s", a.modelPath))
	}

	whisperPath, err := exec.LookPath(a.binary)
	if err != nil {
		return "", newError(whisperCppProvider, fmt.Errorf("%s not found: install whisper.cpp first", a.binary))
	}

	wavData, err := ensureWAV(audioData)
	if err != nil {
		return "", newError(whisperCppProvider, fmt.Errorf("convert to WAV: %w", err))
	}

	tmp, err := os.CreateTemp("", "quotevoice-input-*.wav")
	if err != nil {
		return "", newError(whisperCppProvider, fmt.Errorf("create temp file: %w", err))
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(wavData); err != nil {
		tmp.Close()
		return "", newError(whisperCppProvider, fmt.Errorf("write temp file: %w", err))
	}
	tmp.Close()

	args := a.buildArgs(tmp.Name())

	cmd := exec.CommandContext(ctx, whisperPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Error().Err(err).Dur("after", duration).Str("stderr", stderr.String()).Msg("whisper-cli failed")
		return "", newError(whisperCppProvider, fmt.Errorf("whisper-cli failed: %w", err))
	}

	// with -nt whisper-cli prints the bare transcript
	text := strings.TrimSpace(stdout.String())

	log.Info().Int("bytes", len(audioData)).Dur("took", duration).Str("text", text).Msg("transcribed")
	return text, nil
}

func (a *WhisperCppAdapter) buildArgs(wavPath string) []string {
	lang := a.language
	if lang == "" {
		lang = "auto"
	}

	args := []string{
		"-m", a.modelPath,
		"-l", lang,
		"-bs", "1", // greedy, like beam_size=1
		"-nt", // no timestamps
		"-np", // no progress
		"-f", wavPath,
	}
	if a.threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.threads))
	}
	return args
}
