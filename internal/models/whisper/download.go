package whisper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/leonardotrapani/quotevoice/internal/logging"
)

const huggingFaceURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// ProgressFunc is called during download with bytes downloaded and total
type ProgressFunc func(downloaded, total int64)

// Downloader fetches models over HTTP.
type Downloader struct {
	BaseURL string
	Client  *http.Client
}

func NewDownloader() *Downloader {
	return &Downloader{BaseURL: huggingFaceURL, Client: http.DefaultClient}
}

// Download fetches model id into Dir and returns its path. The file appears
// under its final name only once complete.
func (d *Downloader) Download(ctx context.Context, id string, onProgress ProgressFunc) (string, error) {
	log := logging.For("models")

	m, ok := Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	dest, err := Path(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create models directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+"/"+m.Filename, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %s", resp.Status)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = m.SizeBytes
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), m.Filename+".*.downloading")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := &progressWriter{w: tmp, total: total, onProgress: onProgress}
	if _, err := io.Copy(w, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to finalize download: %w", err)
	}

	log.Info().Str("model", id).Int64("bytes", w.n).Str("path", dest).Msg("model downloaded")
	return dest, nil
}

type progressWriter struct {
	w          io.Writer
	n, total   int64
	onProgress ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.n += int64(n)
	if p.onProgress != nil {
		p.onProgress(p.n, p.total)
	}
	return n, err
}
