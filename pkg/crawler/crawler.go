// Package crawler walks a site depth-first from a seed URL and downloads the files whose names match a filter.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"fetchanything/pkg/match"
	"fetchanything/pkg/models"
	"fetchanything/pkg/parse"
	"fetchanything/pkg/queue"
	"fetchanything/pkg/storage"
	"fetchanything/pkg/utils"
)

// LinkSource lists the links found on a page. Implemented by *process.LinkExtractor
type LinkSource interface {
	ExtractLinks(ctx context.Context, pageURL string) []string
}

// FileSink stores one file. Implemented by *download.Downloader
type FileSink interface {
	Download(ctx context.Context, rawURL, outputDir string) models.DownloadOutcome
}

// Engine drives a single crawl. It is not safe for concurrent use and must not be reused across crawls
type Engine struct {
	req     models.CrawlRequest
	matcher *match.Matcher
	visited storage.VisitedSet
	links   LinkSource
	files   FileSink
	log     *logrus.Entry
}

// NewEngine wires an Engine for req. The filter is compiled here so a bad pattern fails before any request
func NewEngine(req models.CrawlRequest, visited storage.VisitedSet, links LinkSource, files FileSink, log *logrus.Entry) (*Engine, error) {
	matcher, err := match.CompileFilter(req.Filter)
	if err != nil {
		return nil, err
	}
	if req.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: max depth %d is negative", utils.ErrConfigValidation, req.MaxDepth)
	}
	return &Engine{
		req:     req,
		matcher: matcher,
		visited: visited,
		links:   links,
		files:   files,
		log:     log.WithField("component", "crawler"),
	}, nil
}

// Run crawls from the seed until every reachable URL within MaxDepth hops has been processed.
//
// Each URL is visited at most once. A visit downloads the URL when its last path segment matches
// the filter, then fetches it as a page and follows its valid, unvisited links one hop deeper.
// Frames are taken from a LIFO stack with children pushed in reverse, which yields the same order
// as a recursive depth-first walk over links in document order.
//
// Per-URL failures are absorbed by the link source and file sink. Run only returns an error when
// ctx is cancelled (wrapped with utils.ErrInterrupted) or the visited set fails (utils.ErrDatabase).
// The stats are valid in both cases.
func (e *Engine) Run(ctx context.Context) (models.CrawlStats, error) {
	var stats models.CrawlStats
	start := time.Now()

	e.log.WithFields(logrus.Fields{
		"seed":      e.req.SeedURL,
		"max_depth": e.req.MaxDepth,
		"filter":    e.matcher.String(),
		"filter_re": e.matcher.Expr(),
		"out":       e.req.OutputDir,
	}).Info("Crawl starting")

	stack := queue.NewFrameStack(models.Frame{URL: e.req.SeedURL, Depth: 0})
	for {
		if err := ctx.Err(); err != nil {
			e.log.WithField("pending_frames", stack.Len()).Warn("Crawl interrupted")
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("%w: %w", utils.ErrInterrupted, err)
		}

		frame, ok := stack.Pop()
		if !ok {
			break
		}

		children, err := e.visit(ctx, frame, &stats)
		if err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
		stack.PushChildren(children, frame.Depth+1)
	}

	stats.Duration = time.Since(start)
	e.log.WithFields(logrus.Fields{
		"pages_visited": stats.PagesVisited,
		"peak_frames":   stack.Peak(),
	}).Debug("Frame stack drained")
	return stats, nil
}

// visit processes one frame and returns the links to descend into, in extraction order
func (e *Engine) visit(ctx context.Context, frame models.Frame, stats *models.CrawlStats) ([]string, error) {
	if frame.Depth > e.req.MaxDepth {
		stats.RecordSkip(models.SkipReasonDepthExceeded)
		return nil, nil
	}

	// A URL pushed twice by the same page, or reached by a sibling subtree first, is dropped here
	added, err := e.visited.MarkVisited(frame.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: marking %s visited: %w", utils.ErrDatabase, frame.URL, err)
	}
	if !added {
		stats.RecordSkip(models.SkipReasonVisited)
		return nil, nil
	}
	stats.PagesVisited++

	pageLog := e.log.WithFields(logrus.Fields{"url": frame.URL, "depth": frame.Depth})
	pageLog.Infof("Crawling: %s (depth: %d)", frame.URL, frame.Depth)

	if e.matcher.Matches(frame.URL) {
		stats.RecordDownload(e.files.Download(ctx, frame.URL, e.req.OutputDir))
	}

	found := e.links.ExtractLinks(ctx, frame.URL)
	children := make([]string, 0, len(found))
	for _, link := range found {
		if !parse.IsValidURL(link) {
			pageLog.Debugf("Skipping invalid link: %q", link)
			stats.RecordSkip(models.SkipReasonInvalidURL)
			continue
		}
		seen, err := e.visited.IsVisited(link)
		if err != nil {
			return nil, fmt.Errorf("%w: checking %s: %w", utils.ErrDatabase, link, err)
		}
		if seen {
			stats.RecordSkip(models.SkipReasonVisited)
			continue
		}
		children = append(children, link)
	}
	pageLog.Debugf("Following %d of %d links", len(children), len(found))
	return children, nil
}
