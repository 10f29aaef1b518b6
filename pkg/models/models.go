package models

import "time"

// CrawlRequest describes one crawl invocation. It is not modified once a crawl starts.
type CrawlRequest struct {
	SeedURL   string
	MaxDepth  int    // Inclusive bound on hops from the seed
	Filter    string // User-facing glob, compiled by pkg/match
	OutputDir string
}

// Frame is one unit of traversal work: a URL and its distance from the seed
type Frame struct {
	URL   string
	Depth int
}

// DownloadOutcome is the result of a single file download attempt
type DownloadOutcome struct {
	URL       string
	LocalPath string
	Success   bool
	Bytes     int64
	SHA256    string
	ErrorType string // Error category (on failure)
}

// CrawlStats summarizes a finished (or interrupted) crawl
type CrawlStats struct {
	PagesVisited       int
	DownloadsAttempted int
	DownloadsSucceeded int
	DownloadsFailed    int
	BytesWritten       int64
	Skipped            map[SkipReason]int
	Duration           time.Duration
}

// RecordDownload folds a download outcome into the totals
func (s *CrawlStats) RecordDownload(o DownloadOutcome) {
	s.DownloadsAttempted++
	if o.Success {
		s.DownloadsSucceeded++
		s.BytesWritten += o.Bytes
		return
	}
	s.DownloadsFailed++
}

// RecordSkip counts a frame or link dropped for the given reason
func (s *CrawlStats) RecordSkip(reason SkipReason) {
	if s.Skipped == nil {
		s.Skipped = make(map[SkipReason]int)
	}
	s.Skipped[reason]++
}
