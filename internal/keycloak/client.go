// Package keycloak wraps the Keycloak admin REST API for the configured
// realm and layers user registration with email verification on top of it.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/Harindu7/Keycloak/internal/config"
)

var (
	ErrUserExists   = errors.New("keycloak: user already exists")
	ErrUserNotFound = errors.New("keycloak: user not found")
)

// User is the subset of the Keycloak user representation this service
// reads and writes.
type User struct {
	ID            string              `json:"id,omitempty"`
	Username      string              `json:"username,omitempty"`
	Email         string              `json:"email,omitempty"`
	FirstName     string              `json:"firstName,omitempty"`
	LastName      string              `json:"lastName,omitempty"`
	Enabled       bool                `json:"enabled"`
	EmailVerified bool                `json:"emailVerified"`
	Attributes    map[string][]string `json:"attributes,omitempty"`
}

type credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// Client talks to the Keycloak admin REST API using the service account of
// the configured admin client.
type Client struct {
	adminURL string
	http     *http.Client
}

// NewClient builds an admin client authenticating through the client
// credentials grant against the realm token endpoint.
func NewClient(cfg config.KeycloakConfig) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.AdminClientID,
		ClientSecret: cfg.AdminClientSecret,
		TokenURL:     cfg.TokenURL(),
	}
	return &Client{
		adminURL: cfg.AdminURL(),
		http:     cc.Client(context.Background()),
	}
}

// newClientWithHTTP is for tests that stub the admin API directly.
func newClientWithHTTP(adminURL string, httpClient *http.Client) *Client {
	return &Client{adminURL: strings.TrimRight(adminURL, "/"), http: httpClient}
}

// CreateUser creates an enabled user and returns the id Keycloak assigned.
func (c *Client) CreateUser(ctx context.Context, user User) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/users", user)
	if err != nil {
		return "", err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusCreated:
		// Location: .../users/{id}
		location := resp.Header.Get("Location")
		idx := strings.LastIndex(location, "/")
		if idx < 0 || idx == len(location)-1 {
			return "", fmt.Errorf("keycloak: create user: missing id in location %q", location)
		}
		return location[idx+1:], nil
	case http.StatusConflict:
		return "", ErrUserExists
	default:
		return "", statusError("create user", resp)
	}
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return User{}, err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		var user User
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return User{}, fmt.Errorf("keycloak: decode user: %w", err)
		}
		return user, nil
	case http.StatusNotFound:
		return User{}, ErrUserNotFound
	default:
		return User{}, statusError("get user", resp)
	}
}

// FindUserByEmail returns the user with exactly this email, or
// ErrUserNotFound when the realm has none.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (User, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("exact", "true")
	resp, err := c.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil)
	if err != nil {
		return User{}, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return User{}, statusError("find user", resp)
	}
	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return User{}, fmt.Errorf("keycloak: decode users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// UpdateUser replaces the stored representation of the user.
func (c *Client) UpdateUser(ctx context.Context, user User) error {
	if user.ID == "" {
		return ErrUserNotFound
	}
	resp, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(user.ID), user)
	if err != nil {
		return err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrUserNotFound
	default:
		return statusError("update user", resp)
	}
}

// SetEmailVerified loads the user and flips the emailVerified flag.
func (c *Client) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	user, err := c.GetUser(ctx, id)
	if err != nil {
		return err
	}
	user.EmailVerified = verified
	return c.UpdateUser(ctx, user)
}

// SetPassword sets a permanent password for the user.
func (c *Client) SetPassword(ctx context.Context, id, password string) error {
	cred := credential{Type: "password", Value: password, Temporary: false}
	resp, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/reset-password", cred)
	if err != nil {
		return err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrUserNotFound
	default:
		return statusError("set password", resp)
	}
}

// DeleteUser removes the user from the realm.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrUserNotFound
	default:
		return statusError("delete user", resp)
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("keycloak: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.adminURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("keycloak: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keycloak: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("keycloak: %s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(detail)))
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
