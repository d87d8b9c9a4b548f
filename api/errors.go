package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Kind classifies why a Post failed.
type Kind int

const (
	// KindSerialization means the payload could not be encoded; no request was sent.
	KindSerialization Kind = iota + 1
	// KindTransport means the exchange itself failed (DNS, refused, TLS, bad URL).
	KindTransport
	// KindStatus means the server answered outside 200-299.
	KindStatus
	// KindDecode means a 2xx body could not be parsed as JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the failure value of a Post.
//
// For KindStatus, Response is the raw response exactly as received; its body
// has not been read and must be closed by whoever handles the error. For the
// other kinds Err holds the underlying cause and Response is nil. Target is
// the target as shown in messages, with credentials masked.
type Error struct {
	Kind     Kind
	Target   string
	Response *http.Response
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus && e.Response != nil:
		return fmt.Sprintf("POST %s: %s", e.Target, e.Response.Status)
	case e.Err != nil:
		return fmt.Sprintf("POST %s: %s: %v", e.Target, e.Kind, e.Err)
	default:
		return fmt.Sprintf("POST %s: %s failure", e.Target, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the response status for KindStatus errors and 0 otherwise.
func (e *Error) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// ResponseFromError returns the raw response carried by a status failure.
func ResponseFromError(err error) (*http.Response, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindStatus && e.Response != nil {
		return e.Response, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// bufferResponse reads and closes the body of a status failure, replacing it
// with an in-memory copy so the error stays inspectable after the connection
// is released.
func bufferResponse(err error) error {
	resp, ok := ResponseFromError(err)
	if !ok {
		return err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if readErr != nil {
		return errors.Join(err, fmt.Errorf("read error body: %w", readErr))
	}
	return err
}
