// Package remote talks to the external catalog REST service (/api/produtos/).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/platform/httpx"
)

const (
	productsPath = "/api/produtos/"
	maxBodyBytes = 8 << 20
)

// QueryMode selects how text filters are encoded in the search request.
type QueryMode string

const (
	// QueryByField sends one parameter per field: codigo, descricao, fornecedor.
	QueryByField QueryMode = "fields"
	// QueryBySearch repeats the free-text "search" parameter once per term.
	QueryBySearch QueryMode = "search"
)

// ParseQueryMode validates a configured query mode.
func ParseQueryMode(s string) (QueryMode, error) {
	switch QueryMode(strings.ToLower(strings.TrimSpace(s))) {
	case QueryByField, "":
		return QueryByField, nil
	case QueryBySearch:
		return QueryBySearch, nil
	}
	return "", fmt.Errorf("remote: unknown query mode %q", s)
}

// Query carries the text filters forwarded to the catalog service.
type Query struct {
	Code        string
	Description string
	Supplier    string
}

// QueryFromCriteria extracts the remotely matched fields of the criteria.
func QueryFromCriteria(c catalog.FilterCriteria) Query {
	return Query{Code: c.Code, Description: c.Description, Supplier: c.Supplier}
}

// Values encodes the non-empty fields according to mode.
func (q Query) Values(mode QueryMode) url.Values {
	values := url.Values{}
	terms := []struct{ key, value string }{
		{catalog.FilterCode, q.Code},
		{catalog.FilterDescription, q.Description},
		{catalog.FilterSupplier, q.Supplier},
	}
	for _, term := range terms {
		if term.value == "" {
			continue
		}
		if mode == QueryBySearch {
			values.Add("search", term.value)
			continue
		}
		values.Set(term.key, term.value)
	}
	return values
}

// Recorder observes outbound calls.
type Recorder interface {
	ObserveUpstream(op, outcome string, elapsed time.Duration)
}

// StatusError reports a non-success HTTP status from the catalog service.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: %s returned status %d", e.Op, e.StatusCode)
}

// Is maps 404 responses to httpx.ErrNotFound and 5xx to httpx.ErrUpstream.
func (e *StatusError) Is(target error) bool {
	switch target {
	case httpx.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case httpx.ErrUpstream:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// Client wraps interactions with the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mode       QueryMode
	recorder   Recorder
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithQueryMode selects the search parameter encoding.
func WithQueryMode(mode QueryMode) Option {
	return func(c *Client) {
		c.mode = mode
	}
}

// WithRecorder attaches an upstream call observer.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClient constructs a new client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		mode: QueryByField,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the configured query mode.
func (c *Client) Mode() QueryMode {
	return c.mode
}

// Search lists catalog items matching the text filters of q.
func (c *Client) Search(ctx context.Context, q Query) (items []catalog.Item, err error) {
	defer c.observe("search", time.Now(), &err)

	endpoint := c.baseURL + productsPath
	if encoded := q.Values(c.mode).Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "search")
	if err != nil {
		return nil, err
	}
	list, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("remote: decode search response: %w", err)
	}
	items = make([]catalog.Item, 0, len(list))
	for _, p := range list {
		items = append(items, p.toItem())
	}
	return items, nil
}

// Get fetches a single item by id.
func (c *Client) Get(ctx context.Context, id string) (item catalog.Item, err error) {
	defer c.observe("get", time.Now(), &err)

	if strings.TrimSpace(id) == "" {
		return catalog.Item{}, fmt.Errorf("remote: empty item id: %w", httpx.ErrValidation)
	}
	endpoint := c.baseURL + productsPath + url.PathEscape(id) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return catalog.Item{}, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "get")
	if err != nil {
		return catalog.Item{}, err
	}
	var p produto
	if err := json.Unmarshal(body, &p); err != nil {
		return catalog.Item{}, fmt.Errorf("remote: decode item: %w", err)
	}
	return p.toItem(), nil
}

// Create posts a new item. Any 2xx status is success and the body is ignored.
func (c *Client) Create(ctx context.Context, item NewItem) (err error) {
	defer c.observe("create", time.Now(), &err)

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+productsPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req, "create")
	return err
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func (c *Client) observe(op string, start time.Time, errp *error) {
	if c.recorder == nil {
		return
	}
	outcome := "ok"
	var statusErr *StatusError
	switch {
	case *errp == nil:
	case errors.As(*errp, &statusErr):
		outcome = "status_" + strconv.Itoa(statusErr.StatusCode)
	default:
		outcome = "error"
	}
	c.recorder.ObserveUpstream(op, outcome, time.Since(start))
}
