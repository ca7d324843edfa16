// Package download saves a resolved media URL to disk. Output paths are
// validated against directory traversal and files are written atomically
// (temp file + rename) so a failed transfer never leaves a partial video.
package download

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vidresolve/internal/httputil"
)

// sniffLen is the header size filetype needs to recognise a container.
const sniffLen = 262

// Downloader writes media files into a single directory.
type Downloader struct {
	client *resty.Client
	dir    string
	log    logrus.FieldLogger
}

// New returns a Downloader sharing client's headers and cookies.
func New(client *resty.Client, dir string, log logrus.FieldLogger) *Downloader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Downloader{client: client, dir: dir, log: log}
}

// Download fetches mediaURL and stores it as <name>.<ext>, where ext is
// detected from the content. An empty name is derived from the URL.
func (d *Downloader) Download(ctx context.Context, mediaURL, name string) (string, error) {
	if err := httputil.ValidateURL(mediaURL); err != nil {
		return "", errors.Wrap(err, "invalid media URL")
	}
	if name == "" {
		name = httputil.MediaFilename(mediaURL)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(mediaURL)
	if err != nil {
		return "", errors.Wrap(err, "failed to download media")
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return "", errors.Errorf("download failed with status: %d", resp.StatusCode())
	}

	br := bufio.NewReaderSize(body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", errors.Wrap(err, "failed to read media header")
	}
	if !filetype.IsVideo(head) {
		return "", errors.New("downloaded file is not a valid video")
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return "", errors.Wrap(err, "failed to detect file type")
	}

	outputPath, err := httputil.SafeDownloadPath(d.dir, name+"."+kind.Extension)
	if err != nil {
		return "", errors.Wrap(err, "invalid output path")
	}

	tmp, err := os.CreateTemp(d.dir, ".download-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, br)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", errors.Wrap(err, "writing media")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return "", errors.Wrap(err, "renaming media file")
	}

	d.log.WithFields(logrus.Fields{"path": outputPath, "bytes": n, "type": kind.MIME.Value}).Info("downloaded")
	return outputPath, nil
}
