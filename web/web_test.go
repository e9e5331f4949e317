package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_RendersPage(t *testing.T) {
	h, err := Handler("v1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q", ct)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "moviedex v1.2.3") {
		t.Error("expected the version in the footer")
	}
	for _, id := range []string{"title-select", "recommend-btn", "probe-banner", "back-btn", "summary"} {
		if !strings.Contains(body, `id="`+id+`"`) {
			t.Errorf("expected element id %q in the page", id)
		}
	}
}

func TestHandler_EscapesVersion(t *testing.T) {
	h, err := Handler(`<script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if strings.Contains(rr.Body.String(), "<script>alert(1)</script>") {
		t.Error("version must be HTML-escaped")
	}
}
