package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func sessionEcho() (http.Handler, *string) {
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &seen
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	inner, seen := sessionEcho()
	handler := SessionMiddleware(inner)

	req := httptest.NewRequest("GET", "/api/v1/selection", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if *seen == "" {
		t.Fatal("expected a session id in the request context")
	}

	cookies := rr.Result().Cookies()
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == sessionCookie {
			found = c
		}
	}
	if found == nil {
		t.Fatalf("expected %s cookie, got %v", sessionCookie, cookies)
	}
	if found.Value != *seen {
		t.Errorf("cookie value %q does not match context id %q", found.Value, *seen)
	}
	if !found.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
}

func TestSessionMiddleware_ReusesExistingCookie(t *testing.T) {
	inner, seen := sessionEcho()
	handler := SessionMiddleware(inner)

	req := httptest.NewRequest("GET", "/api/v1/selection", http.NoBody)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "existing-id"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if *seen != "existing-id" {
		t.Errorf("session id: got %q, want %q", *seen, "existing-id")
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			t.Errorf("unexpected Set-Cookie for an existing session: %v", c)
		}
	}
}

func TestSessionMiddleware_EmptyCookieGetsFreshID(t *testing.T) {
	inner, seen := sessionEcho()
	handler := SessionMiddleware(inner)

	req := httptest.NewRequest("GET", "/api/v1/selection", http.NoBody)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: ""})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if *seen == "" {
		t.Fatal("expected a fresh session id for an empty cookie")
	}
}

func TestSessionID_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/", http.NoBody)
	if id := SessionID(req.Context()); id != "" {
		t.Errorf("expected empty session id, got %q", id)
	}
}
