package backend

import (
	"context"
	"errors"
	"net/url"
)

const redacted = "xxxxx"

type displayKey struct{}

// WithDisplayURL makes Forward show label instead of the request URL in span
// attributes and transport errors. Use it when the URL itself carries a
// credential, such as a bot token in the path.
func WithDisplayURL(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, displayKey{}, label)
}

// Redact masks the password and every query value of raw.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			q[k] = []string{redacted}
		}
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}

func displayURL(ctx context.Context, fullURL string) string {
	if label, ok := ctx.Value(displayKey{}).(string); ok && label != "" {
		return label
	}
	return Redact(fullURL)
}

// scrubURL replaces the URL net/http puts into its errors.
func scrubURL(err error, shown string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: shown, Err: ue.Err}
	}
	return err
}
