package client

import (
	"context"
	"errors"
	"net/http"

	"taskboard-client/domain"
)

var errNoToken = errors.New("login response missing token")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// Login exchanges credentials for a token. The caller hands the token to
// the session manager; the client itself stores nothing.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := loginRequest{Email: email, Password: password}
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", errNoToken
	}
	return env.Token, nil
}

// Register creates an account and returns the created user when the
// backend includes one.
func (c *Client) Register(ctx context.Context, fullname, email, password string) (domain.User, error) {
	payload := registerRequest{Fullname: fullname, Email: email, Password: password}
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/register", payload)
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	if err := decodeData(env, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// LoginGoogle exchanges a Google id token for a session token.
func (c *Client) LoginGoogle(ctx context.Context, idToken string) (string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/login-google", googleLoginRequest{IDToken: idToken})
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", errNoToken
	}
	return env.Token, nil
}
