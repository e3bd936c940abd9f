package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPFetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Query().Get("file") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><strong>Tuesday, March 5, 2024</strong></body></html>"))
	}))
	defer server.Close()

	f := NewHTTP("test-agent/1.0", 5*time.Second)

	body, err := f.Fetch(context.Background(), server.URL+"/?file=20240305")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(string(body), "March 5, 2024") {
		t.Errorf("unexpected body: %s", body)
	}
	if gotUA != "test-agent/1.0" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent/1.0")
	}

	_, err = f.Fetch(context.Background(), server.URL+"/?file=missing")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "unexpected status code: 404") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHTTPFetch_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTP(DefaultUserAgent, 5*time.Second)
	if _, err := f.Fetch(ctx, server.URL); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"http", ModeHTTP, false},
		{"HTTP", ModeHTTP, false},
		{" browser ", ModeBrowser, false},
		{"", ModeHTTP, false},
		{"curl", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	f, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	h, ok := f.(*HTTP)
	if !ok {
		t.Fatalf("New() returned %T, want *HTTP", f)
	}
	if h.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want default", h.userAgent)
	}
	if h.client.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", h.client.Timeout, DefaultTimeout)
	}

	f, err = New(Options{Mode: ModeBrowser, BrowserRemote: "ws://127.0.0.1:9222/devtools/browser/x"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, ok := f.(*Browser)
	if !ok {
		t.Fatalf("New() returned %T, want *Browser", f)
	}
	if b.remote != "ws://127.0.0.1:9222/devtools/browser/x" {
		t.Errorf("remote = %q", b.remote)
	}
	// Close before any Fetch must not start or touch Chrome
	if err := b.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	if _, err := New(Options{Mode: "ftp"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}
