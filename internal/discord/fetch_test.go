package discord

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

func newAttachmentServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/logo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("PNGDATA"))
	})
	mux.HandleFunc("/files/big.bin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetcher_Fetch(t *testing.T) {
	server := newAttachmentServer(t)
	f := NewFetcher(WithHTTPClient(server.Client()), WithRateLimit(rate.Inf, 1))

	file, err := f.Fetch(context.Background(), server.URL+"/files/logo.png?ex=123&hm=abc")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if file.Name != "logo.png" {
		t.Errorf("Name = %q, want logo.png", file.Name)
	}
	if file.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", file.ContentType)
	}
	data, err := io.ReadAll(file.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("body = %q, want PNGDATA", data)
	}
}

func TestFetcher_NotFound(t *testing.T) {
	server := newAttachmentServer(t)
	f := NewFetcher(WithHTTPClient(server.Client()), WithRateLimit(rate.Inf, 1))

	if _, err := f.Fetch(context.Background(), server.URL+"/files/missing.png"); err == nil {
		t.Error("Fetch() should fail for a 404")
	}
}

func TestFetcher_TooLarge(t *testing.T) {
	server := newAttachmentServer(t)
	f := NewFetcher(WithHTTPClient(server.Client()), WithRateLimit(rate.Inf, 1), WithMaxSize(10))

	_, err := f.Fetch(context.Background(), server.URL+"/files/big.bin")
	if !errors.Is(err, ErrAttachmentTooLarge) {
		t.Errorf("Fetch() error = %v, want ErrAttachmentTooLarge", err)
	}
}

func TestFetcher_CancelledContext(t *testing.T) {
	server := newAttachmentServer(t)
	f := NewFetcher(WithHTTPClient(server.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, server.URL+"/files/logo.png"); err == nil {
		t.Error("Fetch() should fail with a cancelled context")
	}
}

func TestFetcher_FetchAllAbortsOnFailure(t *testing.T) {
	server := newAttachmentServer(t)
	f := NewFetcher(WithHTTPClient(server.Client()), WithRateLimit(rate.Inf, 1))

	files, err := f.FetchAll(context.Background(), []string{
		server.URL + "/files/logo.png",
		server.URL + "/files/missing.png",
	})
	if err == nil {
		t.Fatal("FetchAll() should fail when one download fails")
	}
	if files != nil {
		t.Errorf("FetchAll() returned %d files on failure, want nil", len(files))
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.discordapp.com/attachments/1/2/image.png", "image.png"},
		{"https://cdn.discordapp.com/attachments/1/2/notes.txt?ex=6&is=7", "notes.txt"},
		{"https://example.com/", "attachment"},
		{"https://example.com", "attachment"},
		{"://bad", "attachment"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := fileName(tt.url); got != tt.want {
				t.Errorf("fileName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
