// Package api is a thin JSON client for the messagely HTTP API. It keeps
// the bearer token for the current session and decodes the server's
// response envelopes into client-side models.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/messagely/messagely/internal/common"
)

// User mirrors the server's user view.
type User struct {
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	JoinedAt    time.Time  `json:"join_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Profile mirrors the server's profile summary.
type Profile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Message mirrors the server's message view.
type Message struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at,omitempty"`
	FromUser *Profile   `json:"from_user,omitempty"`
	ToUser   *Profile   `json:"to_user,omitempty"`
}

// APIError carries the HTTP status and the server-provided error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken stores the bearer token used on subsequent requests. An empty
// token clears the session.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	}

	var r *http.Request
	var err error
	if reqBody != nil {
		r, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		r, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}

	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// RegisterParams carries the fields for account creation.
type RegisterParams struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Register creates an account and returns the new user plus a session token.
func (c *Client) Register(ctx context.Context, p RegisterParams) (*User, string, error) {
	var resp struct {
		User  User   `json:"user"`
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", p, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Token, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListUsers returns all profile summaries.
func (c *Client) ListUsers(ctx context.Context) ([]Profile, error) {
	var resp struct {
		Users []Profile `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// GetUser returns a single user's profile.
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Inbox returns messages received by username.
func (c *Client) Inbox(ctx context.Context, username string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username+"/to", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Sent returns messages sent by username.
func (c *Client) Sent(ctx context.Context, username string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username+"/from", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Send delivers a message to toUsername.
func (c *Client) Send(ctx context.Context, toUsername, body string) (*Message, error) {
	req := map[string]string{"to_username": toUsername, "body": body}
	var resp struct {
		Message Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

// GetMessage returns a single message by id.
func (c *Client) GetMessage(ctx context.Context, id int64) (*Message, error) {
	var resp struct {
		Message Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/messages/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

// MarkRead marks a received message read and returns its read receipt.
func (c *Client) MarkRead(ctx context.Context, id int64) (*Message, error) {
	var resp struct {
		Message Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/%d/read", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}
