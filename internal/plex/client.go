// Package plex implements a typed HTTP client for a Plex media server and
// its account directory.
package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client handles media server API operations
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Library represents a media library section
type Library struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Account represents a user account known to the media server
type Account struct {
	ID       AccountID `json:"id"`
	UUID     string    `json:"uuid,omitempty"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Thumb    string    `json:"thumb,omitempty"`
	Home     bool      `json:"home,omitempty"`
}

// ProtocolError indicates the server answered with a shape other than the
// expected collection or object type. It is never retried.
type ProtocolError struct {
	Endpoint string
	Reason   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("plex API returned invalid data from %s: %s", e.Endpoint, e.Reason)
}

// APIError represents a non-2xx response from the media server
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plex API error: HTTP %d: %s", e.StatusCode, e.Body)
}

// NormalizeURL appends a trailing slash to the server address if missing
func NormalizeURL(serverURL string) string {
	if !strings.HasSuffix(serverURL, "/") {
		return serverURL + "/"
	}
	return serverURL
}

// NewClient creates a new media server client
func NewClient(serverURL, token string) *Client {
	return &Client{
		baseURL: NormalizeURL(serverURL),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// makeRequest performs an HTTP request with token authentication and returns
// the raw response body
func (c *Client) makeRequest(ctx context.Context, method, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// decode parses a response body into the expected schema. A body whose shape
// does not match is reported as a ProtocolError rather than a decode failure.
func decode(endpoint string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		var syntaxErr *json.SyntaxError
		if errors.As(err, &typeErr) || errors.As(err, &syntaxErr) {
			return &ProtocolError{Endpoint: endpoint, Reason: err.Error()}
		}
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

// Libraries returns all library sections of the media server
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	const endpoint = "library/sections"

	body, err := c.makeRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	var libraries []Library
	if err := decode(endpoint, body, &libraries); err != nil {
		return nil, err
	}

	return libraries, nil
}

// Accounts returns all accounts known to the media server
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	const endpoint = "accounts"

	body, err := c.makeRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	var accounts []Account
	if err := decode(endpoint, body, &accounts); err != nil {
		return nil, err
	}

	return accounts, nil
}

// Account returns a single account. The userID may be a username, an email
// address or an account identifier, per media server semantics.
func (c *Client) Account(ctx context.Context, userID string) (*Account, error) {
	endpoint := "accounts/" + url.PathEscape(userID)

	body, err := c.makeRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := decode(endpoint, body, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// RemoveFriend revokes a shared-library friendship. A missing friendship is
// not an error.
func (c *Client) RemoveFriend(ctx context.Context, userID string) error {
	endpoint := "friends/" + url.PathEscape(userID)

	_, err := c.makeRequest(ctx, http.MethodDelete, endpoint)
	return ignoreNotFound(err)
}

// RemoveHomeUser removes a home user from the server owner's household. A
// missing home user is not an error.
func (c *Client) RemoveHomeUser(ctx context.Context, userID string) error {
	endpoint := "home/users/" + url.PathEscape(userID)

	_, err := c.makeRequest(ctx, http.MethodDelete, endpoint)
	return ignoreNotFound(err)
}

// ignoreNotFound treats HTTP 404 as success so removals stay idempotent
func ignoreNotFound(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}
