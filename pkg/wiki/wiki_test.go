package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestImageURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "query" {
			t.Errorf("action = %q, want query", got)
		}
		if got := r.URL.Query().Get("prop"); got != "pageimages" {
			t.Errorf("prop = %q, want pageimages", got)
		}

		switch r.URL.Query().Get("titles") {
		case "Alice":
			w.Write([]byte(`{"query":{"pages":{"42":{"thumbnail":{"source":"https://upload.example/alice.jpg"}}}}}`))
		case "Nobody":
			w.Write([]byte(`{"query":{"pages":{"-1":{"missing":""}}}}`))
		default:
			w.Write([]byte(`{"query":{"pages":{}}}`))
		}
	}))
	defer server.Close()

	client := NewClient(NewClientParams{BaseURL: server.URL})

	url, err := client.ImageURL(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("ImageURL: %v", err)
	}
	if url != "https://upload.example/alice.jpg" {
		t.Errorf("url = %q", url)
	}

	if _, err := client.ImageURL(context.Background(), "Nobody"); !errors.Is(err, ErrNoImage) {
		t.Errorf("missing page: err = %v, want ErrNoImage", err)
	}
}

func TestImageURLUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(NewClientParams{BaseURL: server.URL})
	if _, err := client.ImageURL(context.Background(), "Alice"); err == nil {
		t.Fatal("expected an error for a failing upstream")
	}
}
