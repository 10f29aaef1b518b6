package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"fetchanything/pkg/utils"
)

// HTTPFetcher issues a single GET and returns the response only for 2xx statuses.
// Callers own the returned body.
type HTTPFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*http.Response, error)
}

// FetchError reports a GET that produced no usable response: a transport failure or a non-2xx status.
// It unwraps to one of the utils HTTP sentinels (or the transport error).
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher performs GET requests with the shared client. Nothing is retried: a failed request is final
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       *logrus.Entry
}

var _ HTTPFetcher = (*Fetcher)(nil)

// NewFetcher creates a new Fetcher instance
func NewFetcher(client *http.Client, userAgent string, log *logrus.Entry) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		log:       log,
	}
}

// Fetch performs one GET bound to ctx.
// On success the caller must close resp.Body. On failure the body has already been drained and closed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*http.Response, error) {
	reqLog := f.log.WithField("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("%w: %w", utils.ErrRequestCreation, err)}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			reqLog.Debugf("Request aborted by context: %v", err)
		}
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	statusCode := resp.StatusCode
	resLog := reqLog.WithFields(logrus.Fields{"status_code": statusCode, "status": resp.Status})

	var statusErr error
	switch {
	case statusCode >= 200 && statusCode < 300:
		resLog.Debug("Successfully fetched")
		return resp, nil
	case statusCode >= 500:
		statusErr = fmt.Errorf("%w: status %d %s", utils.ErrServerHTTPError, statusCode, resp.Status)
	case statusCode >= 400:
		statusErr = fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, resp.Status)
	default:
		// 1xx, or 3xx left unfollowed (e.g. missing Location)
		statusErr = fmt.Errorf("%w: status %d %s", utils.ErrOtherHTTPError, statusCode, resp.Status)
	}
	resLog.Debug("Non-2xx response")

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil, &FetchError{URL: rawURL, StatusCode: statusCode, Err: statusErr}
}
