package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 2*time.Second), srv
}

func TestRegister_SendsPayloadAndDecodesEnvelope(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/register" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var p RegisterParams
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if p.Username != "alice" || p.Phone != "+15551234567" {
			t.Fatalf("unexpected payload: %+v", p)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"user":  User{Username: "alice"},
			"token": "tok",
		})
	})
	defer srv.Close()

	user, token, err := c.Register(context.Background(), RegisterParams{
		Username: "alice", Password: "pw", FirstName: "A", LastName: "S", Phone: "+15551234567",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.Username != "alice" || token != "tok" {
		t.Fatalf("unexpected result: %+v %q", user, token)
	}
}

func TestLogin_ReturnsToken(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"username": "alice", "token": "tok"})
	})
	defer srv.Close()

	token, err := c.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token != "tok" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"users": []Profile{}})
	})
	defer srv.Close()

	c.SetToken("tok")
	if _, err := c.ListUsers(context.Background()); err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestAPIError_DecodedFromBody(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "username taken"})
	})
	defer srv.Close()

	_, _, err := c.Register(context.Background(), RegisterParams{Username: "alice"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "username taken" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestMessagePaths(t *testing.T) {
	var paths []string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"message":  Message{ID: 7},
			"messages": []Message{},
		})
	})
	defer srv.Close()

	ctx := context.Background()
	if _, err := c.Send(ctx, "bob", "hi"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if _, err := c.GetMessage(ctx, 7); err != nil {
		t.Fatalf("GetMessage error: %v", err)
	}
	if _, err := c.MarkRead(ctx, 7); err != nil {
		t.Fatalf("MarkRead error: %v", err)
	}
	if _, err := c.Inbox(ctx, "bob"); err != nil {
		t.Fatalf("Inbox error: %v", err)
	}
	if _, err := c.Sent(ctx, "alice"); err != nil {
		t.Fatalf("Sent error: %v", err)
	}

	want := []string{
		"POST /messages",
		"GET /messages/7",
		"POST /messages/7/read",
		"GET /users/bob/to",
		"GET /users/alice/from",
	}
	if len(paths) != len(want) {
		t.Fatalf("unexpected request count: %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("request %d: want %q, got %q", i, want[i], paths[i])
		}
	}
}
