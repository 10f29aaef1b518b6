// Package download streams matched files from the crawl into the output directory.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"fetchanything/pkg/fetch"
	"fetchanything/pkg/models"
	"fetchanything/pkg/parse"
	"fetchanything/pkg/utils"
)

// ChunkSize is the read/write unit of the copy loop; progress is reported once per chunk
const ChunkSize = 1024

// Downloader writes response bodies to local files
type Downloader struct {
	fetcher  fetch.HTTPFetcher
	progress Progress
	log      *logrus.Entry
}

// NewDownloader creates a Downloader. A nil progress disables progress output
func NewDownloader(fetcher fetch.HTTPFetcher, progress Progress, log *logrus.Entry) *Downloader {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Downloader{
		fetcher:  fetcher,
		progress: progress,
		log:      log.WithField("component", "download"),
	}
}

// Download fetches rawURL into outputDir under the URL's decoded last path segment (see parse.FileName).
// The name is not sanitized: a URL ending in '/' fails (the target is the directory itself) and
// segments such as ".." are not defended against. Existing files are overwritten.
// Failures are logged at warning level and reported through Success=false; a partially written file is left in place.
func (d *Downloader) Download(ctx context.Context, rawURL, outputDir string) models.DownloadOutcome {
	outcome := models.DownloadOutcome{URL: rawURL}
	dlLog := d.log.WithField("url", rawURL)

	path, written, sum, err := d.fetchToFile(ctx, rawURL, outputDir, dlLog)
	outcome.LocalPath = path
	outcome.Bytes = written
	if err != nil {
		outcome.ErrorType = utils.CategorizeError(err)
		dlLog.WithField("error_type", outcome.ErrorType).Warnf("Failed to download %s: %v", rawURL, err)
		return outcome
	}

	outcome.Success = true
	outcome.SHA256 = sum
	dlLog.WithFields(logrus.Fields{
		"path":   path,
		"bytes":  written,
		"sha256": sum,
	}).Infof("Downloaded: %s (%s)", filepath.Base(path), humanize.IBytes(uint64(written)))
	return outcome
}

func (d *Downloader) fetchToFile(ctx context.Context, rawURL, outputDir string, dlLog *logrus.Entry) (path string, written int64, sum string, err error) {
	resp, err := d.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", 0, "", err
	}
	defer resp.Body.Close()

	filename := parse.FileName(rawURL)
	path = filepath.Join(outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return path, 0, "", fmt.Errorf("%w: %w", utils.ErrFilesystem, err)
	}
	defer func() {
		if errClose := f.Close(); errClose != nil && err == nil {
			err = fmt.Errorf("%w: closing %s: %w", utils.ErrFilesystem, path, errClose)
		}
	}()

	// ContentLength is -1 when the header is absent; it only feeds the progress total
	d.progress.Start(filename, resp.ContentLength)
	defer d.progress.Finish()

	digest := utils.NewDigest()
	buf := make([]byte, ChunkSize)
	for {
		n, errRead := resp.Body.Read(buf)
		if n > 0 {
			if _, errWrite := f.Write(buf[:n]); errWrite != nil {
				return path, digest.Len(), "", fmt.Errorf("%w: writing %s: %w", utils.ErrFilesystem, path, errWrite)
			}
			digest.Write(buf[:n])
			d.progress.Add(n)
		}
		if errRead == io.EOF {
			break
		}
		if errors.Is(errRead, io.ErrUnexpectedEOF) && resp.ContentLength >= 0 {
			// The server announced more than it sent; the stream has still ended
			dlLog.Debugf("Body ended after %d of %d announced bytes", digest.Len(), resp.ContentLength)
			break
		}
		if errRead != nil {
			return path, digest.Len(), "", fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, errRead)
		}
	}
	return path, digest.Len(), digest.Sum(), nil
}
