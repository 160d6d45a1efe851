package client

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
	"sync"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

// HTTPClient talks to the choirhub JSON API. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the API rooted at baseURL
// (e.g. http://127.0.0.1:5000). The /api prefix is added per call.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends one request. in, when non-nil, is sent as JSON; out, when non-nil,
// receives the decoded success body.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return mapError(resp.StatusCode, apiErr)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return nil
}

func memberPath(id string, suffix string) string {
	return "/members/" + url.PathEscape(id) + suffix
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "OK" {
		return fmt.Errorf("%w: health status %q", ErrUnavailable, out.Status)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*models.PublicAccount, error) {
	var out struct {
		User *models.PublicAccount `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*Session, error) {
	in := map[string]string{"username": username, "password": password}
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &sess); err != nil {
		return nil, err
	}
	if sess.Token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrUnexpected)
	}
	return &sess, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.PublicAccount, error) {
	var acc models.PublicAccount
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, current, next string) error {
	in := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/members/profile/password", in, nil)
}

// ListMembers returns full accounts for admins and the reduced directory
// projection for members; directory rows leave the missing fields empty.
func (c *HTTPClient) ListMembers(ctx context.Context) ([]models.PublicAccount, error) {
	var out []models.PublicAccount
	if err := c.do(ctx, http.MethodGet, "/members", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListPending(ctx context.Context) ([]models.PublicAccount, error) {
	var out []models.PublicAccount
	if err := c.do(ctx, http.MethodGet, "/members/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Approve(ctx context.Context, id string) (*models.PublicAccount, error) {
	var out struct {
		User *models.PublicAccount `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, memberPath(id, "/approve"), nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Reject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, memberPath(id, "/reject"), nil, nil)
}

func (c *HTTPClient) ChangeRole(ctx context.Context, id string, role models.Role) (*models.PublicAccount, error) {
	var acc models.PublicAccount
	in := map[string]string{"role": string(role)}
	if err := c.do(ctx, http.MethodPut, memberPath(id, "/role"), in, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *HTTPClient) DeleteMember(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, memberPath(id, ""), nil, nil)
}

func (c *HTTPClient) CreateRecording(ctx context.Context, in models.RecordingInput) (*models.RecordingUpload, error) {
	var out models.RecordingUpload
	if err := c.do(ctx, http.MethodPost, "/recordings", in, &out); err != nil {
		return nil, err
	}
	if out.Recording == nil || out.Upload == nil {
		return nil, fmt.Errorf("%w: missing upload target", ErrUnexpected)
	}
	return &out, nil
}

func (c *HTTPClient) CompleteRecording(ctx context.Context, id string) (*models.Recording, error) {
	var rec models.Recording
	if err := c.do(ctx, http.MethodPost, "/recordings/"+url.PathEscape(id)+"/complete", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
