package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, Client: srv.Client()}
}

func TestNewer(t *testing.T) {
	c := releaseServer(t, http.StatusOK, `{"tag_name":"v0.10.0","html_url":"https://example.com/r"}`)
	tests := []struct {
		current string
		want    bool
	}{
		{"v0.2.0", true},
		{"v0.10.0", false},
		{"v1.0.0", false},
		{"dev-abc123", false},
	}
	for _, tt := range tests {
		rel, newer, err := c.Newer(context.Background(), tt.current)
		if err != nil {
			t.Fatalf("Newer(%s): %v", tt.current, err)
		}
		if newer != tt.want {
			t.Errorf("Newer(%s) = %v, want %v", tt.current, newer, tt.want)
		}
		if rel.HTMLURL != "https://example.com/r" {
			t.Errorf("release = %+v", rel)
		}
	}
}

func TestLatestErrors(t *testing.T) {
	if _, err := releaseServer(t, http.StatusForbidden, "rate limited").Latest(context.Background()); err == nil {
		t.Error("expected status error")
	}
	if _, err := releaseServer(t, http.StatusOK, "{").Latest(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}
