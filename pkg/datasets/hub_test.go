package datasets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
)

func TestHubEnsureDownloadsAndCaches(t *testing.T) {
	body := []byte(`{"task_id":"1"}`)
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(body)
	}))
	defer srv.Close()

	hub, err := NewHub(t.TempDir())
	require.NoError(t, err)

	sum := sha256.Sum256(body)
	pin := hex.EncodeToString(sum[:])

	ctx := context.Background()
	path, err := hub.Ensure(ctx, "train.jsonl", srv.URL, pin)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	// Cached file is reused without a second request.
	_, err = hub.Ensure(ctx, "train.jsonl", srv.URL, pin)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	_, err = os.Stat(path + ".partial")
	assert.True(t, os.IsNotExist(err), "no partial file left behind")
}

func TestHubEnsureChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("corrupted"))
	}))
	defer srv.Close()

	hub, err := NewHub(t.TempDir())
	require.NoError(t, err)

	_, err = hub.Ensure(context.Background(), "train.jsonl", srv.URL, "deadbeef")
	require.Error(t, err)

	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.ChecksumMismatch, e.Code())
	assert.Equal(t, "deadbeef", e.Fields()["want"])

	_, err = os.Stat(filepath.Join(hub.CacheDir, "train.jsonl"))
	assert.True(t, os.IsNotExist(err), "mismatched file is removed")
}

func TestHubEnsureMissingDataset(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	hub, err := NewHub(t.TempDir())
	require.NoError(t, err)

	_, err = hub.Ensure(context.Background(), "absent.jsonl", srv.URL, "")
	require.Error(t, err)

	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.DatasetNotFound, e.Code())
}
