// Package whisper manages the ggml model files used by whisper.cpp.
package whisper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultModel is the model the config points at when none is set.
const DefaultModel = "tiny"

var ErrUnknownModel = errors.New("unknown model")

// Model describes one downloadable ggml model
type Model struct {
	ID        string // model identifier (e.g., "base")
	Filename  string // file name (e.g., "ggml-base.bin")
	Size      string // human readable size
	SizeBytes int64
}

// multilingual models only: quotes are transcribed with a language hint
var catalog = []Model{
	{ID: "tiny", Filename: "ggml-tiny.bin", Size: "75MB", SizeBytes: 75_000_000},
	{ID: "base", Filename: "ggml-base.bin", Size: "142MB", SizeBytes: 142_000_000},
	{ID: "small", Filename: "ggml-small.bin", Size: "466MB", SizeBytes: 466_000_000},
	{ID: "medium", Filename: "ggml-medium.bin", Size: "1.5GB", SizeBytes: 1_500_000_000},
	{ID: "large-v3", Filename: "ggml-large-v3.bin", Size: "3GB", SizeBytes: 3_000_000_000},
}

// List returns every known model, smallest first.
func List() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id string) (Model, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Dir is where models are stored: $XDG_DATA_HOME/quotevoice/models.
func Dir() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "quotevoice", "models"), nil
}

// Path returns where model id lives once downloaded.
func Path(id string) (string, error) {
	m, ok := Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, m.Filename), nil
}

// IsInstalled returns true if the model is downloaded and non-empty
func IsInstalled(id string) bool {
	path, err := Path(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// Remove deletes a downloaded model
func Remove(id string) error {
	path, err := Path(id)
	if err != nil {
		return err
	}
	if !IsInstalled(id) {
		return fmt.Errorf("model not installed: %s", id)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove model: %w", err)
	}
	return nil
}
