package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/semaphore"
)

const (
	// The vendor holds the connection open while it rotates proxies and
	// solves anti-bot challenges, 60s is their documented worst case.
	requestTimeout = 70 * time.Second

	retryWaitTime    = 500 * time.Millisecond
	retryMaxWaitTime = 30 * time.Second
)

type Config struct {
	ApiKey           string
	BaseURL          string
	ConcurrencyLimit int
	RetryCount       int
}

// Request describes a single page to pull through the gateway. Zero values
// mean "vendor default" for every knob.
type Request struct {
	URL           string
	RenderJS      bool
	CountryCode   string
	SessionNumber int
	Premium       bool
}

// Client is a shared, concurrency-bounded client for the scraping gateway.
// One instance serves all workers, so connections are pooled and the
// in-flight cap matches what the account is allowed.
type Client struct {
	http    *resty.Client
	sem     *semaphore.Weighted
	apiKey  string
	metrics *clientMetrics
}

func NewClient(conf Config) *Client {
	if conf.ConcurrencyLimit <= 0 {
		conf.ConcurrencyLimit = 1
	}

	m := newClientMetrics()

	client := resty.New().
		SetBaseURL(conf.BaseURL).
		SetTransport(newTransport(conf.ConcurrencyLimit)).
		SetTimeout(requestTimeout).
		SetRetryCount(conf.RetryCount).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return retryableStatus(r.StatusCode())
		}).
		AddRetryHook(func(r *resty.Response, err error) {
			m.retries.Add(r.Request.Context(), 1)
			slog.Debug("retrying request",
				"url", r.Request.QueryParam.Get("url"),
				"attempt", r.Request.Attempt,
				"status", r.StatusCode(),
				"err", err)
		})
	instrumentClient(client)

	return &Client{
		http:    client,
		sem:     semaphore.NewWeighted(int64(conf.ConcurrencyLimit)),
		apiKey:  conf.ApiKey,
		metrics: m,
	}
}

// Fetch pulls one page through the gateway. It blocks while the in-flight
// cap is exhausted, retries retryable failures with exponential backoff, and
// classifies whatever remains into the error taxonomy.
func (c *Client) Fetch(ctx context.Context, req Request) (*Page, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	r := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetQueryParam("url", req.URL)
	if req.RenderJS {
		r.SetQueryParam("render", "true")
	}
	if len(req.CountryCode) > 0 {
		r.SetQueryParam("country_code", req.CountryCode)
	}
	if req.SessionNumber > 0 {
		r.SetQueryParam("session_number", strconv.Itoa(req.SessionNumber))
	}
	if req.Premium {
		r.SetQueryParam("premium", "true")
	}

	start := time.Now()
	resp, err := r.Get("/")
	elapsed := time.Since(start)

	attempts := 1
	if resp != nil && resp.Request != nil {
		attempts = resp.Request.Attempt
	}

	if err != nil {
		c.record(ctx, elapsed, "transport_error")
		return nil, fmt.Errorf("fetch %s: %w", req.URL, err)
	}

	code := resp.StatusCode()
	switch {
	case authStatus(code):
		c.record(ctx, elapsed, "auth_error")
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrAuth, code, req.URL)
	case resp.IsSuccess():
		c.record(ctx, elapsed, "success")
		return &Page{
			URL:        req.URL,
			Html:       string(resp.Body()),
			StatusCode: code,
			Cookies:    resp.Cookies(),
			Elapsed:    elapsed,
			Attempts:   attempts,
		}, nil
	default:
		c.record(ctx, elapsed, "status_error")
		return nil, &StatusError{Code: code, URL: req.URL}
	}
}

func (c *Client) record(ctx context.Context, elapsed time.Duration, outcome string) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	c.metrics.requests.Add(ctx, 1, attrs)
	c.metrics.duration.Record(ctx, elapsed.Seconds(), attrs)
}
