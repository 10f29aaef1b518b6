package process

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"fetchanything/pkg/fetch"
	"fetchanything/pkg/parse"
	"fetchanything/pkg/utils"
)

// LinkExtractor fetches pages and lists the anchor targets they contain
type LinkExtractor struct {
	fetcher fetch.HTTPFetcher
	log     *logrus.Entry
}

// NewLinkExtractor creates a LinkExtractor
func NewLinkExtractor(fetcher fetch.HTTPFetcher, log *logrus.Entry) *LinkExtractor {
	return &LinkExtractor{
		fetcher: fetcher,
		log:     log.WithField("component", "links"),
	}
}

// ExtractLinks returns every <a> target on pageURL, resolved against pageURL, in document order.
// Results are not filtered for validity or duplicates. Any failure is logged and yields no links.
// Responses whose Content-Type is set and is not text, HTML or XML are not parsed, so a page served
// as e.g. application/octet-stream contributes no links.
func (lp *LinkExtractor) ExtractLinks(ctx context.Context, pageURL string) []string {
	links, err := lp.FetchLinks(ctx, pageURL)
	if err != nil {
		pageLog := lp.log.WithFields(logrus.Fields{"url": pageURL, "error_type": utils.CategorizeError(err)})
		if ctx.Err() != nil {
			pageLog.Debugf("Link extraction aborted: %v", err)
		} else {
			pageLog.Warnf("Error processing %s: %v", pageURL, err)
		}
		return nil
	}
	return links
}

// FetchLinks is ExtractLinks with the error returned instead of logged.
// Fetch failures are *fetch.FetchError; unparseable bodies wrap utils.ErrParsing.
func (lp *LinkExtractor) FetchLinks(ctx context.Context, pageURL string) ([]string, error) {
	resp, err := lp.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	pageLog := lp.log.WithField("url", pageURL)
	contentType := resp.Header.Get("Content-Type")
	if !isMarkup(contentType) {
		pageLog.Debugf("Content-Type '%s' carries no anchors, skipping parse", contentType)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: HTML of %s: %w", utils.ErrParsing, pageURL, err)
	}

	var links []string
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		// A missing href resolves to the page itself, which the visited set then drops
		href, _ := a.Attr("href")
		links = append(links, parse.Resolve(pageURL, href))
	})
	pageLog.Debugf("Found %d anchors", len(links))
	return links, nil
}

// isMarkup reports whether a Content-Type may contain HTML anchors. A missing header is given the benefit of the doubt
func isMarkup(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.HasPrefix(mediaType, "text/") || strings.Contains(mediaType, "html") || strings.Contains(mediaType, "xml")
}
