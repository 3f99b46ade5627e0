package datasets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
	"github.com/nihongo-dojo/dojo-go/pkg/logging"
)

// Hub downloads published dataset archives into a local cache and verifies
// them against a pinned checksum before first use.
type Hub struct {
	CacheDir string
	Client   *http.Client
}

// NewHub creates a hub caching under dir, defaulting to
// ~/.dojo-go/datasets.
func NewHub(dir string) (*Hub, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.IOFailed, "resolve home directory")
		}
		dir = filepath.Join(home, ".dojo-go", "datasets")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.IOFailed, "create cache directory")
	}
	return &Hub{CacheDir: dir, Client: http.DefaultClient}, nil
}

// Ensure returns the local path of a named dataset file, downloading it when
// absent. A non-empty sha256 pins the expected content; a mismatch removes
// the file and fails.
func (h *Hub) Ensure(ctx context.Context, name, url, sha256sum string) (string, error) {
	path := filepath.Join(h.CacheDir, name)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.GetLogger().Info(ctx, "dataset %s not cached, downloading from %s", name, url)
		if err := h.download(ctx, url, path); err != nil {
			return "", err
		}
	}

	if sha256sum != "" {
		sum, err := fileChecksum(path)
		if err != nil {
			return "", err
		}
		if sum != sha256sum {
			os.Remove(path)
			return "", errors.WithFields(
				errors.New(errors.ChecksumMismatch, "dataset checksum mismatch"),
				errors.Fields{"dataset": name, "want": sha256sum, "got": sum})
		}
	}
	return path, nil
}

func (h *Hub) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, errors.InvalidInput, "build download request")
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.IOFailed, "download dataset")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.WithFields(
			errors.New(errors.DatasetNotFound, "dataset download failed"),
			errors.Fields{"url": url, "status": resp.StatusCode})
	}

	tmp := path + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, errors.IOFailed, "create cache file")
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return errors.Wrap(err, errors.IOFailed, "save dataset")
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, errors.IOFailed, "close cache file")
	}
	return os.Rename(tmp, path)
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, errors.IOFailed, "open file for checksum")
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, errors.IOFailed, "hash file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
