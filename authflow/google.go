// Package authflow obtains the Google id token the backend's
// /auth/login-google endpoint consumes.
package authflow

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var errNoIDToken = errors.New("token response missing id_token")

// GoogleFlow runs the OAuth2 authorization-code flow against Google and
// extracts the id_token from the exchange response.
type GoogleFlow struct {
	conf *oauth2.Config
}

// NewGoogleFlow configures the flow. redirectURL must match the OAuth
// client registration; for CLI use an out-of-band/localhost redirect.
func NewGoogleFlow(clientID, clientSecret, redirectURL string) *GoogleFlow {
	return &GoogleFlow{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

// StateToken produces the CSRF state parameter for the auth URL.
func StateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AuthURL is where the user grants access.
func (f *GoogleFlow) AuthURL(state string) string {
	return f.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for tokens and returns the raw
// id_token to hand to the backend.
func (f *GoogleFlow) Exchange(ctx context.Context, code string) (string, error) {
	tok, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	idToken, ok := tok.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", errNoIDToken
	}
	return idToken, nil
}
