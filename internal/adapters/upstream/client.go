// Package upstream fetches the patient collection from the remote API.
//
// There is exactly one request shape: an authenticated GET returning the whole
// collection as a JSON array. No retry, no pagination.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/pulse/internal/domain/patient"
	"github.com/okian/pulse/pkg/logger"
	"github.com/okian/pulse/pkg/metrics"
)

// Defaults of the public patient API.
const (
	DefaultURL      = "https://fedskillstest.coalitiontechnologies.workers.dev"
	DefaultUsername = "coalition"
	DefaultPassword = "skills-test"
	defaultTimeout  = 15 * time.Second
)

// Result is the outcome of one fetch. StatusCode is 0 when no response arrived.
type Result struct {
	Patients   []patient.Patient
	StatusCode int
	Err        error
}

// OK reports whether the fetch returned 200 with a decoded collection.
func (r Result) OK() bool {
	return r.Err == nil && r.StatusCode == http.StatusOK
}

// Source delivers a fetch result asynchronously.
type Source interface {
	Load(ctx context.Context) <-chan Result
}

// Client performs the patient collection fetch.
type Client struct {
	url      string
	username string
	password string
	timeout  time.Duration
	http     *http.Client
	logger   logger.Logger
}

// New constructs a Client pointing at the public API with its published credentials.
func New(opts ...Option) *Client {
	c := &Client{
		url:      DefaultURL,
		username: DefaultUsername,
		password: DefaultPassword,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Copy so the caller's client keeps its own timeout.
	hc := http.Client{}
	if c.http != nil {
		hc = *c.http
	}
	hc.Timeout = c.timeout
	c.http = &hc
	if c.logger == nil {
		c.logger = logger.Named("upstream")
	}
	return c
}

// Load runs Fetch on its own goroutine. The channel receives exactly one Result and
// is then closed.
func (c *Client) Load(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- c.Fetch(ctx)
	}()
	return out
}

// Fetch performs one GET of the patient collection.
func (c *Client) Fetch(ctx context.Context) Result {
	start := time.Now()
	res := c.fetch(ctx)
	elapsed := time.Since(start)

	metrics.RecordUpstreamLatency(float64(elapsed.Milliseconds()))
	if res.StatusCode != 0 {
		metrics.RecordUpstreamRequest(strconv.Itoa(res.StatusCode))
	}
	if res.Err != nil {
		metrics.RecordUpstreamError(errorKind(res.Err))
		c.logger.Error(ctx, "patient fetch failed",
			logger.String("url", c.url),
			logger.Int("status", res.StatusCode),
			logger.Float64("durationMs", float64(elapsed.Milliseconds())),
			logger.Error(res.Err),
		)
		return res
	}

	c.logger.Info(ctx, "patient collection fetched",
		logger.Int("status", res.StatusCode),
		logger.Int("count", len(res.Patients)),
		logger.Float64("durationMs", float64(elapsed.Milliseconds())),
	)
	return res
}

func (c *Client) fetch(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrRequest, err)}
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrRequest, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Result{StatusCode: resp.StatusCode, Err: &StatusError{Code: resp.StatusCode}}
	}

	var patients []patient.Patient
	if err := json.NewDecoder(resp.Body).Decode(&patients); err != nil {
		return Result{StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	if patients == nil {
		patients = []patient.Patient{}
	}
	return Result{Patients: patients, StatusCode: resp.StatusCode}
}
