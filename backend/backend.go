package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "chatkit/backend"

// Doer performs a single HTTP exchange. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client represents a client to communicate with the backend API server.
type Client struct {
	baseURL *url.URL
	doer    Doer
	metrics *metrics
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*options)

type options struct {
	doer       Doer
	registerer prometheus.Registerer
	provider   trace.TracerProvider
	tracerName string
}

// WithDoer replaces the transport used for every exchange.
func WithDoer(d Doer) Option {
	return func(o *options) {
		o.doer = d
	}
}

// WithMetrics registers the request counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithTracerProvider records spans through tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.provider = tp
	}
}

// WithTracerName sets the instrumentation name of the tracer.
func WithTracerName(name string) Option {
	return func(o *options) {
		o.tracerName = name
	}
}

// NewClient creates a new Client that resolves relative targets against baseURL.
// The default transport is an http.Client with no overall timeout.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	o := options{tracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if o.doer == nil {
		o.doer = &http.Client{}
	}
	if o.provider == nil {
		o.provider = otel.GetTracerProvider()
	}

	c := &Client{
		baseURL: base,
		doer:    o.doer,
		tracer:  o.provider.Tracer(o.tracerName),
	}
	if o.registerer != nil {
		m, err := newMetrics(o.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}
	return c, nil
}

// Resolve returns the absolute URL for target. Absolute targets are returned
// unchanged; relative ones are resolved against the base URL.
func (c *Client) Resolve(target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid target %q: %w", target, err)
	}
	if ref.IsAbs() {
		return target, nil
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// Forward sends the HTTP request to the backend server and returns the response.
// The response is returned whatever its status; the caller owns its body.
// Spans and transport errors show the URL with its query values masked, or
// the label set by WithDisplayURL.
func (c *Client) Forward(ctx context.Context, method, target string, headers http.Header, body io.Reader) (*http.Response, error) {
	// Construct the full URL.
	fullURL, err := c.Resolve(target)
	if err != nil {
		return nil, err
	}

	shown := displayURL(ctx, fullURL)
	ctx, span := c.tracer.Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", shown),
		),
	)
	defer span.End()

	// Create a new HTTP request with context.
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		err = scrubURL(err, shown)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Copy headers.
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		err = scrubURL(err, shown)
		c.observe(method, "error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.observe(method, strconv.Itoa(resp.StatusCode), start)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}

func (c *Client) observe(method, code string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.requestsTotal.WithLabelValues(method, code).Inc()
	c.metrics.requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
