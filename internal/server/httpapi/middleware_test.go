package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/messagely/messagely/internal/common"
)

func TestRequireAuth_MissingHeader(t *testing.T) {
	s := newServer(&fakeUserSvc{}, &fakeMessageSvc{})

	w := doRequest(t, s, http.MethodGet, "/users", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	s := newServer(&fakeUserSvc{}, &fakeMessageSvc{})

	w := doRequest(t, s, http.MethodGet, "/users", "", "Basic abc123")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	s := newServer(&fakeUserSvc{}, &fakeMessageSvc{})

	w := doRequest(t, s, http.MethodGet, "/users", "", "Bearer not.a.token")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	s := newServer(&fakeUserSvc{}, &fakeMessageSvc{})
	s.jwtSecret = []byte("other")

	w := doRequest(t, s, http.MethodGet, "/users", "", bearerFor(t, "alice"))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token signed with a different secret must be rejected, got %d", w.Code)
	}
}

func TestRequestID_Assigned(t *testing.T) {
	s := newServer(&fakeUserSvc{}, &fakeMessageSvc{})

	w := doRequest(t, s, http.MethodGet, "/users", "", bearerFor(t, "alice"))

	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a generated request id header")
	}
}

func TestRequestID_Echoed(t *testing.T) {
	s := newServer(&fakeUserSvc{}, &fakeMessageSvc{})

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set(common.AuthorizationHeaderName, bearerFor(t, "alice"))
	r.Header.Set(requestIDHeader, "req-42")

	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, r)

	if got := w.Header().Get(requestIDHeader); got != "req-42" {
		t.Fatalf("expected caller-supplied request id to be echoed, got %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newServer(&fakeUserSvc{}, &fakeMessageSvc{})

	w := doRequest(t, s, http.MethodDelete, "/users", "", bearerFor(t, "alice"))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", w.Code)
	}
}
