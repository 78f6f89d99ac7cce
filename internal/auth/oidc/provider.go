// Package oidc runs the OpenID Connect relying-party handshake against the
// configured Keycloak realm.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/Harindu7/Keycloak/internal/config"
)

var ErrNoIDToken = errors.New("oidc: token response carried no id_token")

// Identity is the verified identity extracted from an ID token.
type Identity struct {
	Subject    string
	Email      string
	Username   string
	GivenName  string
	FamilyName string
	// RawIDToken is kept for the id_token_hint at RP-initiated logout.
	RawIDToken string
}

// Provider wraps issuer discovery, the code exchange and ID token
// verification.
type Provider struct {
	provider      *gooidc.Provider
	verifier      *gooidc.IDTokenVerifier
	oauth2Config  *oauth2.Config
	endSessionURL string
	postLogoutURL string
}

// NewProvider discovers the realm issuer and prepares the relying-party
// config. Discovery needs the realm to be reachable.
func NewProvider(ctx context.Context, cfg config.KeycloakConfig) (*Provider, error) {
	provider, err := gooidc.NewProvider(ctx, cfg.IssuerURL())
	if err != nil {
		return nil, fmt.Errorf("oidc: discover issuer %s: %w", cfg.IssuerURL(), err)
	}

	verifier := provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID})
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
	}

	return &Provider{
		provider:      provider,
		verifier:      verifier,
		oauth2Config:  oauth2Config,
		endSessionURL: cfg.EndSessionURL(),
		postLogoutURL: cfg.PostLogoutURL,
	}, nil
}

// AuthCodeURL returns the authorization URL for the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and verifies the ID
// token.
func (p *Provider) Exchange(ctx context.Context, code string) (Identity, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("oidc: exchange code: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return Identity{}, ErrNoIDToken
	}
	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, fmt.Errorf("oidc: verify id_token: %w", err)
	}

	var claims struct {
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
		GivenName         string `json:"given_name"`
		FamilyName        string `json:"family_name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("oidc: parse claims: %w", err)
	}

	username := claims.PreferredUsername
	if username == "" {
		username = claims.Email
	}
	return Identity{
		Subject:    idToken.Subject,
		Email:      claims.Email,
		Username:   username,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		RawIDToken: rawIDToken,
	}, nil
}

// LogoutURL builds the RP-initiated logout URL for the realm.
func (p *Provider) LogoutURL(idTokenHint string) string {
	q := url.Values{}
	q.Set("post_logout_redirect_uri", p.postLogoutURL)
	if idTokenHint != "" {
		q.Set("id_token_hint", idTokenHint)
	}
	return p.endSessionURL + "?" + q.Encode()
}
