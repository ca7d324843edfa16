package download

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mp4Header is a minimal ftyp box followed by filler.
var mp4Header = append([]byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), bytes.Repeat([]byte{0}, 512)...)

func newMediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/play/clip123.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write(mp4Header)
	})
	mux.HandleFunc("/play/page.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not a video</body></html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadWritesVideo(t *testing.T) {
	srv := newMediaServer(t)
	dir := t.TempDir()

	path, err := New(resty.New(), dir, nil).Download(context.Background(), srv.URL+"/play/clip123.mp4", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "clip123.mp4"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, mp4Header, data)
}

func TestDownloadRejectsNonVideo(t *testing.T) {
	srv := newMediaServer(t)
	dir := t.TempDir()

	_, err := New(resty.New(), dir, nil).Download(context.Background(), srv.URL+"/play/page.mp4", "page")
	require.Error(t, err)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestDownloadStatusError(t *testing.T) {
	srv := newMediaServer(t)

	_, err := New(resty.New(), t.TempDir(), nil).Download(context.Background(), srv.URL+"/missing.mp4", "x")
	assert.ErrorContains(t, err, "404")
	assert.Contains(t, fmt.Sprintf("%+v", err), "(*Downloader).Download", "status errors carry a stack trace")
}

func TestDownloadSanitizesName(t *testing.T) {
	srv := newMediaServer(t)
	dir := t.TempDir()

	path, err := New(resty.New(), dir, nil).Download(context.Background(), srv.URL+"/play/clip123.mp4", "../../escape")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}
