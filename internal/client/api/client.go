// Package api implements the HTTP client for the Carta-Selo backend. It
// keeps the access/refresh token pair and transparently refreshes an
// expired access token once before retrying the original request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL      string
	httpClient   *http.Client
	accessToken  string
	refreshToken string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LoggedIn reports whether the client currently holds an access token.
func (c *Client) LoggedIn() bool {
	return c.accessToken != ""
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type serverError struct {
	Error string `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	return req, nil
}

// do sends the request described by method/path/body and decodes a success
// response into out (unless out is nil). On a 401 caused by an expired
// access token, the token pair is refreshed once and the request retried.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	return c.withRefreshRetry(ctx, func() error {
		return c.doOnce(ctx, method, path, body, out)
	})
}

// withRefreshRetry runs attempt, and when it fails with 401 "token expired"
// and a refresh token is on hand, refreshes the pair and runs attempt again.
// Any other failure is mapped to a package sentinel.
func (c *Client) withRefreshRetry(ctx context.Context, attempt func() error) error {
	err := attempt()
	if err == nil {
		return nil
	}

	re, ok := err.(*responseError)
	if !ok {
		return err
	}
	if re.status != http.StatusUnauthorized || re.message != "token expired" {
		return re.sentinel()
	}
	if c.refreshToken == "" {
		return re.sentinel()
	}

	if err := c.refresh(ctx); err != nil {
		return err
	}
	if err := attempt(); err != nil {
		if re, ok := err.(*responseError); ok {
			return re.sentinel()
		}
		return err
	}
	return nil
}

// responseError carries the HTTP status, server-provided message and raw
// body for a non-2xx response, so do can decide whether a token refresh
// applies and sentinel can pull structured payloads out of the body.
type responseError struct {
	status  int
	message string
	body    []byte
}

func (e *responseError) Error() string {
	if e.message != "" {
		return e.message
	}
	return http.StatusText(e.status)
}

// sentinel maps the response to a package-level error where one fits, so
// callers can branch with errors.Is instead of inspecting status codes.
func (e *responseError) sentinel() error {
	switch e.status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, e.message)
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		// a duplicate seal attempt answers 409 with the existing seal,
		// which callers need to show the user
		var payload struct {
			Seal *Seal `json:"seal"`
		}
		if json.Unmarshal(e.body, &payload) == nil && payload.Seal != nil {
			return &AlreadySealedError{Seal: payload.Seal}
		}
		return fmt.Errorf("%w: %s", ErrConflict, e.message)
	default:
		return e
	}
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &serverError{}
		_ = json.Unmarshal(data, se)
		return &responseError{status: resp.StatusCode, message: se.Error, body: data}
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func (c *Client) refresh(ctx context.Context) error {
	tokens := &tokenPair{}
	body := map[string]string{"refresh_token": c.refreshToken}
	if err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/refresh", body, tokens); err != nil {
		if re, ok := err.(*responseError); ok {
			return re.sentinel()
		}
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	return nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	tokens := &tokenPair{}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, tokens); err != nil {
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	return nil
}

func (c *Client) CreateDraft(ctx context.Context) (*Draft, error) {
	draft := &Draft{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/drafts", nil, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (c *Client) ListDrafts(ctx context.Context) ([]Draft, error) {
	var drafts []Draft
	if err := c.do(ctx, http.MethodGet, "/api/v1/drafts", nil, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (c *Client) GetDraft(ctx context.Context, id string) (*Draft, error) {
	draft := &Draft{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/drafts/"+id, nil, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (c *Client) UpdateSection(ctx context.Context, draftID, sectionID, content string) (*Draft, error) {
	draft := &Draft{}
	body := map[string]string{"content": content}
	path := "/api/v1/drafts/" + draftID + "/sections/" + sectionID
	if err := c.do(ctx, http.MethodPut, path, body, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (c *Client) Seal(ctx context.Context, draftID string) (*Seal, error) {
	seal := &Seal{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/drafts/"+draftID+"/seal", nil, seal); err != nil {
		return nil, err
	}
	return seal, nil
}

// Export fetches the plain-text rendering of a draft or sealed letter.
func (c *Client) Export(ctx context.Context, draftID string) (string, error) {
	var text string
	err := c.withRefreshRetry(ctx, func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/drafts/"+draftID+"/export", nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			se := &serverError{}
			_ = json.Unmarshal(data, se)
			return &responseError{status: resp.StatusCode, message: se.Error, body: data}
		}

		text = string(data)
		return nil
	})
	return text, err
}

// ExportLink asks the server to publish the rendering and returns an
// expiring download URL.
func (c *Client) ExportLink(ctx context.Context, draftID string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/drafts/"+draftID+"/export/link", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
