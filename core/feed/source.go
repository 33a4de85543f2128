package feed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/valyala/fasthttp"
)

const maxRedirects = 5

// ErrTimeout is returned when a feed fetch exceeds its deadline.
var ErrTimeout = errors.New("feed fetch timed out")

// StatusError reports a non-200 response from a feed URL.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed %s returned HTTP %d", e.URL, e.StatusCode)
}

// Source fetches raw calendar documents.
type Source interface {
	// FetchRaw downloads the document at url. Non-200 responses are errors.
	FetchRaw(ctx context.Context, url string) (string, error)
}

// HTTPSource fetches feeds with fasthttp and a fixed per-request timeout.
type HTTPSource struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// NewHTTPSource creates an HTTP feed source. Timeouts <= 0 default to 30s.
func NewHTTPSource(timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		client: &fasthttp.Client{
			Name:                "booking-sync",
			MaxConnsPerHost:     4,
			MaxIdleConnDuration: 90 * time.Second,
		},
		timeout: timeout,
	}
}

// FetchRaw implements Source. The deadline is the earlier of the source
// timeout and ctx's deadline; redirects are followed.
func (s *HTTPSource) FetchRaw(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/calendar, text/plain;q=0.9, */*;q=0.5")

	for redirects := 0; ; redirects++ {
		if err := s.client.DoDeadline(req, resp, deadline); err != nil {
			if isTimeout(err) {
				return "", fmt.Errorf("%w: %s", ErrTimeout, url)
			}
			return "", fmt.Errorf("fetch %s: %w", url, err)
		}

		code := resp.StatusCode()
		if !fasthttp.StatusCodeIsRedirect(code) {
			break
		}
		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 || redirects >= maxRedirects {
			return "", &StatusError{URL: url, StatusCode: code}
		}
		req.URI().UpdateBytes(location)
		resp.Reset()
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}

	return string(resp.Body()), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
