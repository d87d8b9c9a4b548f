// Package notify delivers short text messages to a person through pluggable
// sinks: the terminal, the log, a desktop alert, a Telegram chat or a chat
// room over WebSocket.
package notify

import (
	"context"
	"errors"
	"io"
)

// Notifier shows message to the user. Each call displays the message once.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, message string) error

func (f Func) Notify(ctx context.Context, message string) error {
	return f(ctx, message)
}

// Multi sends every message to each sink in order. A failing sink does not
// stop the others; the errors are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds resources.
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := Close(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases n if it implements io.Closer.
func Close(n Notifier) error {
	if c, ok := n.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
