package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clipmark/article-extractor/models"
)

func TestGet(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>page</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher()
	body, err := f.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(body) != "<html><body>page</body></html>" {
		t.Errorf("body = %q", body)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("User-Agent = %q, want a browser agent", gotUA)
	}
}

func TestGetBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher()
	_, err := f.Get(context.Background(), srv.URL)

	var ee *models.ExtractionError
	if !errors.As(err, &ee) || ee.Code != models.ErrFetchFailed {
		t.Fatalf("Get() error = %v, want FETCH_FAILED", err)
	}
}

func TestGetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	f := NewFetcher()
	_, err := f.Get(ctx, srv.URL)

	var ee *models.ExtractionError
	if !errors.As(err, &ee) || ee.Code != models.ErrTimeout {
		t.Fatalf("Get() error = %v, want TIMEOUT", err)
	}
}

func TestGetInvalidURL(t *testing.T) {
	f := NewFetcher()
	_, err := f.Get(context.Background(), "http://  bad url")

	var ee *models.ExtractionError
	if !errors.As(err, &ee) || ee.Code != models.ErrInvalidURL {
		t.Fatalf("Get() error = %v, want INVALID_URL", err)
	}
}
