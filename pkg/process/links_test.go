package process

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fetchanything/pkg/fetch"
	"fetchanything/pkg/utils"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func newExtractor(log *logrus.Entry) *LinkExtractor {
	return NewLinkExtractor(fetch.NewFetcher(http.DefaultClient, "", log), log)
}

// page describes a canned response
type page struct {
	status      int
	contentType string
	body        string
}

func siteServer(t *testing.T, pages map[string]page) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if p.contentType != "" {
			w.Header().Set("Content-Type", p.contentType)
		}
		if p.status != 0 {
			w.WriteHeader(p.status)
		}
		io.WriteString(w, p.body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtractLinks_ResolvesAgainstPageURL(t *testing.T) {
	server := siteServer(t, map[string]page{
		"/docs/index.html": {contentType: "text/html; charset=utf-8", body: `
<html><body>
  <a href="a.pdf">sibling</a>
  <a href="../up.html">parent</a>
  <a href="/root.zip">root</a>
  <a href="https://other.example/x">absolute</a>
  <a href="mailto:me@example.com">mail</a>
  <a name="anchor-only">no href</a>
</body></html>`},
	})

	links := newExtractor(testLogger()).ExtractLinks(context.Background(), server.URL+"/docs/index.html")

	assert.Equal(t, []string{
		server.URL + "/docs/a.pdf",
		server.URL + "/up.html",
		server.URL + "/root.zip",
		"https://other.example/x",
		"mailto:me@example.com",
		server.URL + "/docs/index.html",
	}, links)
}

func TestExtractLinks_NoAnchors(t *testing.T) {
	server := siteServer(t, map[string]page{
		"/b/": {contentType: "text/html", body: "<html><body><p>nothing here</p></body></html>"},
	})

	links, err := newExtractor(testLogger()).FetchLinks(context.Background(), server.URL+"/b/")

	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestExtractLinks_SkipsBinaryContent(t *testing.T) {
	server := siteServer(t, map[string]page{
		"/a.pdf": {contentType: "application/pdf", body: `%PDF-1.4 <a href="/trap">`},
	})

	links, err := newExtractor(testLogger()).FetchLinks(context.Background(), server.URL+"/a.pdf")

	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestExtractLinks_MislabelledIndexIsNotParsed(t *testing.T) {
	server := siteServer(t, map[string]page{
		"/index": {contentType: "application/octet-stream", body: `<a href="/a.pdf">a</a>`},
	})

	links := newExtractor(testLogger()).ExtractLinks(context.Background(), server.URL+"/index")

	assert.Empty(t, links)
}

func TestExtractLinks_FailureYieldsNoLinksAndWarns(t *testing.T) {
	server := siteServer(t, map[string]page{
		"/broken": {status: http.StatusInternalServerError, body: `<a href="/never">x</a>`},
	})
	logger, hook := test.NewNullLogger()
	extractor := newExtractor(logrus.NewEntry(logger))

	links := extractor.ExtractLinks(context.Background(), server.URL+"/broken")

	assert.Empty(t, links)
	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, "HTTP_5xx", last.Data["error_type"])
}

func TestFetchLinks_ReturnsFetchError(t *testing.T) {
	server := siteServer(t, map[string]page{})

	_, err := newExtractor(testLogger()).FetchLinks(context.Background(), server.URL+"/missing")

	var fetchErr *fetch.FetchError
	require.True(t, errors.As(err, &fetchErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.True(t, errors.Is(err, utils.ErrClientHTTPError))
}

func TestExtractLinks_CancelledContextLogsAtDebug(t *testing.T) {
	server := siteServer(t, map[string]page{"/": {body: "<a href='x'>x</a>"}})
	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	links := newExtractor(logrus.NewEntry(logger)).ExtractLinks(ctx, server.URL+"/")

	assert.Empty(t, links)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, e.Level, "cancellation is not a page failure")
	}
}

func TestIsMarkup(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"", true},
		{"text/html", true},
		{"text/html; charset=UTF-8", true},
		{"application/xhtml+xml", true},
		{"text/plain", true},
		{"application/pdf", false},
		{"image/png", false},
		{"application/octet-stream", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isMarkup(tt.contentType), tt.contentType)
	}
}
