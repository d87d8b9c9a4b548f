package api

import (
	"context"
	"io"
)

// Chat server auth endpoints.
const (
	RegisterPath = "/api/register"
	LoginPath    = "/api/login"
)

// Credentials is the body accepted by the register and login endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is what a successful login returns.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Register creates an account. The server answers 201 with an empty body, so
// the response is taken raw and only its status is checked.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	p, err := c.Post(ctx, RegisterPath, creds, RawResponse())
	if err != nil {
		return err
	}
	res, err := p.Wait()
	if err != nil {
		return bufferResponse(err)
	}
	_, _ = io.Copy(io.Discard, res.Response.Body)
	return res.Response.Body.Close()
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	return PostJSON[Session](ctx, c, LoginPath, creds)
}
