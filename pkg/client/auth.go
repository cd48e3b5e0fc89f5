package client

import (
	"context"
	"net/http"
	"time"
)

type authResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Register creates an account and starts a session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, Tokens, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, pathRegister, nil, in, &out); err != nil {
		return nil, Tokens{}, err
	}
	c.cache.Clear()
	return &out.User, out.Tokens, nil
}

// Login starts a session. Unknown emails and wrong passwords both fail
// with a 401.
func (c *Client) Login(ctx context.Context, email, password string) (*User, Tokens, error) {
	in := map[string]string{"email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, nil, in, &out); err != nil {
		return nil, Tokens{}, err
	}
	c.cache.Clear()
	return &out.User, out.Tokens, nil
}

// Refresh rotates both tokens using the refresh cookie.
func (c *Client) Refresh(ctx context.Context) (Tokens, error) {
	var out struct {
		Tokens Tokens `json:"tokens"`
	}
	if err := c.do(ctx, http.MethodPost, pathRefresh, nil, nil, &out); err != nil {
		return Tokens{}, err
	}
	return out.Tokens, nil
}

// Logout ends the session and empties the cache.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.cache.Clear()
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/auth/me", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// AvatarUpload is a presigned URL the caller PUTs the image to.
type AvatarUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (c *Client) CreateAvatarUpload(ctx context.Context, contentType string) (*AvatarUpload, error) {
	var out AvatarUpload
	in := map[string]string{"contentType": contentType}
	if err := c.do(ctx, http.MethodPost, "/api/auth/me/avatar", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AvatarURL(ctx context.Context) (string, error) {
	var out struct {
		DownloadURL string `json:"downloadUrl"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me/avatar", nil, nil, &out); err != nil {
		return "", err
	}
	return out.DownloadURL, nil
}

func (c *Client) DeleteAvatar(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/me/avatar", nil, nil, nil)
}
