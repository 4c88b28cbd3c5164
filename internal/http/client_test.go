package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_GetString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "autoeq-fiio" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	client := NewClient(time.Second)
	body, err := client.GetString(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if body != "hello" {
		t.Errorf("body = %q", body)
	}
}

func TestClient_GetString_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient(time.Second)
	_, err := client.GetString(context.Background(), server.URL+"/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_GetStringConditional(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v2"`)
		if r.Header.Get("If-None-Match") == `"v2"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte("fresh"))
	}))
	defer server.Close()

	client := NewClient(time.Second)

	body, etag, notModified, err := client.GetStringConditional(context.Background(), server.URL, "")
	if err != nil {
		t.Fatalf("unconditional fetch failed: %v", err)
	}
	if notModified {
		t.Error("unconditional fetch reported notModified")
	}
	if body != "fresh" || etag != `"v2"` {
		t.Errorf("body = %q, etag = %q", body, etag)
	}

	_, etag, notModified, err = client.GetStringConditional(context.Background(), server.URL, `"v2"`)
	if err != nil {
		t.Fatalf("conditional fetch failed: %v", err)
	}
	if !notModified {
		t.Error("matching ETag should report notModified")
	}
	if etag != `"v2"` {
		t.Errorf("etag = %q, want the validator back", etag)
	}
}
