package images

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/seed/ocean/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithLogger(discardLogger()))
	img, err := f.Fetch(context.Background(), "ocean")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if img.MIME != "image/jpeg" {
		t.Errorf("MIME = %q, want image/jpeg", img.MIME)
	}
	if string(img.Data) != "jpeg-bytes" {
		t.Errorf("Data = %q", img.Data)
	}
}

func TestFetch_NonImageContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>not found</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithLogger(discardLogger()))
	if _, err := f.Fetch(context.Background(), "x"); err == nil {
		t.Fatal("expected error for text/html payload")
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithLogger(discardLogger()))
	if _, err := f.Fetch(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestFetch_RejectsOversizePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(make([]byte, maxImageBytes+1))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithLogger(discardLogger()))
	if _, err := f.Fetch(context.Background(), "huge"); err == nil {
		t.Fatal("expected error for payload over the size cap, got truncated image")
	}
}

func TestFetch_TimesOutOnHungServer(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	f := NewFetcher(WithBaseURL(srv.URL), WithLogger(discardLogger()))
	start := time.Now()
	_, err := f.Fetch(context.Background(), "slow")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 6*time.Second {
		t.Errorf("fetch took %v, expected it bounded by the per-fetch timeout", elapsed)
	}
}

func TestFetchAll_PartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/seed/bad/") {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png"))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithLogger(discardLogger()))
	got := f.FetchAll(context.Background(), map[string]string{
		"s1": "good",
		"s2": "bad",
		"s3": "also-good",
	})
	if len(got) != 2 {
		t.Fatalf("FetchAll returned %d images, want 2", len(got))
	}
	if _, ok := got["s2"]; ok {
		t.Error("failed seed should not produce an image")
	}
	if got["s1"].MIME != "image/png" {
		t.Errorf("s1 MIME = %q", got["s1"].MIME)
	}
}

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("raw-image"))
	img, err := DecodeDataURI("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if img.MIME != "image/png" {
		t.Errorf("MIME = %q", img.MIME)
	}
	if string(img.Data) != "raw-image" {
		t.Errorf("Data = %q", img.Data)
	}
}

func TestDecodeDataURI_Rejects(t *testing.T) {
	cases := []struct {
		name string
		uri  string
	}{
		{"not a data URI", "https://example.com/a.png"},
		{"missing comma", "data:image/png;base64"},
		{"not base64", "data:image/png,plainpayload"},
		{"non image media type", "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hi"))},
		{"invalid payload", "data:image/png;base64,!!!not-base64!!!"},
		{"empty payload", "data:image/png;base64,"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeDataURI(tc.uri); err == nil {
				t.Errorf("DecodeDataURI(%q) succeeded, want error", tc.uri)
			}
		})
	}
}
