// Package apiclient talks to the user API and the chat relay on behalf of
// the terminal client.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

// APIError is a non-2xx answer. Code and Message come from the server's
// error body when it has one.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan,omitempty"`
}

type deleteResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	var created model.User
	if err := c.do(ctx, http.MethodPost, "/api/users", user, &created); err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	var updated model.User
	path := "/api/users/" + url.PathEscape(user.ID)
	if err := c.do(ctx, http.MethodPut, path, user, &updated); err != nil {
		return model.User{}, fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	var resp deleteResponse
	if err := c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(userID), nil, &resp); err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, reg model.Registration) (model.Registration, error) {
	var created model.Registration
	body := registerRequest{Name: reg.Name, Email: reg.Email, Plan: reg.Plan}
	if err := c.do(ctx, http.MethodPost, "/api/register", body, &created); err != nil {
		return model.Registration{}, fmt.Errorf("register: %w", err)
	}
	return created, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); json.Unmarshal(raw, &errBody) == nil {
			apiErr.Code = errBody.Error
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
