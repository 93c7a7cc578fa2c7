package api

import (
	"context"

	"github.com/safar/go-storefront-client/internal/models"
)

// Profile returns the signed-in user. ErrUnauthenticated means the session
// credential is absent or was rejected.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.getWithRetry(ctx, "/user/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login establishes the session credential in the client's cookie jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.post(ctx, "/user/login", loginRequest{Email: email, Password: password}, nil)
}

type registerRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and establishes the session credential.
func (c *Client) Register(ctx context.Context, fullName, email, password string) error {
	return c.post(ctx, "/user/register", registerRequest{FullName: fullName, Email: email, Password: password}, nil)
}

// Logout invalidates the session credential server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/user/logout", struct{}{}, nil)
}
