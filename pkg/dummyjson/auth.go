package dummyjson

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := request{
		op:     "auth.login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Username: username, Password: password},
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a user. The demo API echoes the user back without
// persisting it.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*RemoteUser, error) {
	var out RemoteUser
	req := request{op: "users.add", method: http.MethodPost, path: "/users/add", body: input}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
