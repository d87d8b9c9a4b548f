package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"chatkit/backend"
)

// Client posts JSON payloads through a backend transport.
type Client struct {
	backend *backend.Client
}

// NewClient wraps b. Relative targets are resolved against b's base URL.
func NewClient(b *backend.Client) *Client {
	return &Client{backend: b}
}

// PostOptions controls how a successful response is handed back.
type PostOptions struct {
	// ParseJSON decodes the response body into Result.Value. Default true.
	ParseJSON bool
	// Display names the target in errors, logs and spans. When empty the
	// target is shown with its password and query values masked.
	Display string
}

// PostOption configures a single Post.
type PostOption func(*PostOptions)

// RawResponse returns the unread *http.Response in Result.Response instead of
// parsing the body.
func RawResponse() PostOption {
	return func(o *PostOptions) {
		o.ParseJSON = false
	}
}

// ParseJSON sets the ParseJSON flag explicitly.
func ParseJSON(parse bool) PostOption {
	return func(o *PostOptions) {
		o.ParseJSON = parse
	}
}

// DisplayAs hides the target behind label. Use it when the URL itself carries
// a credential.
func DisplayAs(label string) PostOption {
	return func(o *PostOptions) {
		o.Display = label
	}
}

// Result is the success value of a Post. Exactly one of Value/Raw or Response
// is populated, depending on PostOptions.ParseJSON.
type Result struct {
	// Value is the decoded body (map[string]any, []any, string, float64, bool or nil).
	Value any
	// Raw is the body bytes Value was decoded from.
	Raw json.RawMessage
	// Response is the unread response when ParseJSON is false. The caller
	// must close its body.
	Response *http.Response
}

// Post encodes payload as JSON and sends it to target with
// Content-Type: application/json.
//
// An encoding failure is returned immediately and nothing is sent. Every
// other outcome is delivered through the returned Pending. ctx only carries
// values: cancelling it does not abort the exchange.
func (c *Client) Post(ctx context.Context, target string, payload any, opts ...PostOption) (*Pending, error) {
	o := PostOptions{ParseJSON: true}
	for _, opt := range opts {
		opt(&o)
	}

	shown := o.Display
	if shown == "" {
		shown = backend.Redact(target)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindSerialization, Target: shown, Err: err}
	}

	ctx = context.WithoutCancel(ctx)
	if o.Display != "" {
		ctx = backend.WithDisplayURL(ctx, o.Display)
	}
	p := newPending()
	log.Debugf("POST %s (%d bytes)", shown, len(body))

	go func() {
		p.resolve(c.exchange(ctx, target, shown, body, o))
	}()
	return p, nil
}

func (c *Client) exchange(ctx context.Context, target, shown string, body []byte, o PostOptions) (Result, error) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	resp, err := c.backend.Forward(ctx, http.MethodPost, target, headers, bytes.NewReader(body))
	if err != nil {
		return Result{}, &Error{Kind: KindTransport, Target: shown, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &Error{Kind: KindStatus, Target: shown, Response: resp}
	}
	if !o.ParseJSON {
		return Result{Response: resp}, nil
	}

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &Error{Kind: KindTransport, Target: shown, Err: fmt.Errorf("read body: %w", err)}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Result{}, &Error{Kind: KindDecode, Target: shown, Err: err}
	}
	return Result{Value: v, Raw: raw}, nil
}

// Decode converts a parsed Result into T.
func Decode[T any](r Result) (T, error) {
	var out T
	if r.Raw == nil {
		return out, fmt.Errorf("result has no parsed body")
	}
	if err := json.Unmarshal(r.Raw, &out); err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, nil
}

// PostJSON posts payload, waits for the outcome and decodes it into T.
// The body of a status failure is buffered, so the returned error needs no
// cleanup.
func PostJSON[T any](ctx context.Context, c *Client, target string, payload any, opts ...PostOption) (T, error) {
	var zero T
	p, err := c.Post(ctx, target, payload, append(opts, ParseJSON(true))...)
	if err != nil {
		return zero, err
	}
	res, err := p.Wait()
	if err != nil {
		return zero, bufferResponse(err)
	}
	return Decode[T](res)
}
