package clients

import (
	"context"
	"net/http"

	"stationdesk/services/console/internal/models"
)

// AuthClient calls the /auth endpoints.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns client.
func NewAuthClient(base *BaseClient) *AuthClient {
	return &AuthClient{base: base}
}

// Register creates an account and returns the signed-in user with token.
func (c *AuthClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.base.DoJSON(ctx, "auth.register", http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for the signed-in user with token.
func (c *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	var user models.User
	if err := c.base.DoJSON(ctx, "auth.login", http.MethodPost, "/auth/login", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
