package reservations

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"booking-sync/core/booking"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the API has no reservation with the given ID.
var ErrNotFound = errors.New("reservation not found")

// maxPages guards FetchAll against an API that never reports a last page.
const maxPages = 200

// APIError reports a non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("reservation api %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("reservation api %s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap maps 404 responses to ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.StatusCode == fasthttp.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Page is one page of reservations.
type Page struct {
	Stays       []booking.Stay
	CurrentPage int
	LastPage    int
	Total       int
}

// Client talks to the authoritative reservation API.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	perPage int
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a reservation API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                "booking-sync",
			MaxConnsPerHost:     8,
			MaxIdleConnDuration: 90 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.APIToken,
		perPage: perPage,
		timeout: timeout,
		logger:  logger,
	}
}

// Fetch returns one page of reservations, optionally filtered by status and
// check-in date.
func (c *Client) Fetch(ctx context.Context, page, perPage int, status *booking.StayStatus, checkIn *booking.Date) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	if status != nil {
		q.Set("status", string(*status))
	}
	if checkIn != nil {
		q.Set("check_in", checkIn.String())
	}

	var resp listResponse
	if err := c.do(ctx, fasthttp.MethodGet, "/reservations", q, &resp); err != nil {
		return Page{}, err
	}

	out := Page{
		Stays:       make([]booking.Stay, 0, len(resp.Data)),
		CurrentPage: resp.Meta.CurrentPage,
		LastPage:    resp.Meta.LastPage,
		Total:       resp.Meta.Total,
	}
	for _, dto := range resp.Data {
		out.Stays = append(out.Stays, dto.toStay())
	}
	return out, nil
}

// FetchAll walks every page.
func (c *Client) FetchAll(ctx context.Context, status *booking.StayStatus, checkIn *booking.Date) ([]booking.Stay, error) {
	var all []booking.Stay
	for page := 1; page <= maxPages; page++ {
		p, err := c.Fetch(ctx, page, c.perPage, status, checkIn)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, p.Stays...)
		if len(p.Stays) == 0 || p.LastPage <= page {
			break
		}
	}

	c.logger.Debug("Fetched reservations", zap.Int("count", len(all)))
	return all, nil
}

// FetchByID returns a single reservation.
func (c *Client) FetchByID(ctx context.Context, id string) (booking.Stay, error) {
	var resp itemResponse
	if err := c.do(ctx, fasthttp.MethodGet, "/reservations/"+url.PathEscape(id), nil, &resp); err != nil {
		return booking.Stay{}, err
	}
	return resp.Data.toStay(), nil
}

// Accept approves a pending reservation.
func (c *Client) Accept(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodPost, "/reservations/"+url.PathEscape(id)+"/accept", nil, nil)
}

// Decline rejects a pending reservation.
func (c *Client) Decline(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodPost, "/reservations/"+url.PathEscape(id)+"/decline", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("reservation api %s %s: %w", method, path, err)
	}

	code := resp.StatusCode()
	if code < 200 || code >= 300 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: code}
		var body errorResponse
		if json.Unmarshal(resp.Body(), &body) == nil {
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
