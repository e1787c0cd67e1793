package gutenberg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/castgraph/backend/pkg/cache"
)

const rawBookText = `The Project Gutenberg eBook of Alice's Adventures in Wonderland
License boilerplate goes here.
*** START OF THE PROJECT GUTENBERG EBOOK ALICE'S ADVENTURES IN WONDERLAND ***
Alice was beginning to get very tired of sitting by her sister on the bank.

So she was considering in her own mind whether the pleasure of making a
daisy-chain would be worth the trouble.
*** END OF THE PROJECT GUTENBERG EBOOK ALICE'S ADVENTURES IN WONDERLAND ***
End matter and license text.`

const bookPageHTML = `<html><body>
<h1>Alice's Adventures in Wonderland by Lewis Carroll</h1>
<a href="/ebooks/author/7">Carroll, Lewis</a>
</body></html>`

func newTestServer(t *testing.T, textHits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/11/11-0.txt", func(w http.ResponseWriter, r *http.Request) {
		if textHits != nil {
			textHits.Add(1)
		}
		w.Write([]byte(rawBookText))
	})
	mux.HandleFunc("/ebooks/11", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bookPageHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	store, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client, err := NewClient(NewClientParams{
		BaseURL: baseURL,
		Store:   store,
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestFetchBookStripsBoilerplate(t *testing.T) {
	srv := newTestServer(t, nil)
	client := newTestClient(t, srv.URL)

	book, err := client.FetchBook(context.Background(), "11")
	if err != nil {
		t.Fatalf("FetchBook() error = %v", err)
	}

	want := `Alice was beginning to get very tired of sitting by her sister on the bank.

So she was considering in her own mind whether the pleasure of making a
daisy-chain would be worth the trouble.`
	if book.Text != want {
		t.Errorf("Text = %q, want %q", book.Text, want)
	}
	if book.Title != "Alice's Adventures in Wonderland by Lewis Carroll" {
		t.Errorf("Title = %q", book.Title)
	}
	if book.Author != "Carroll, Lewis" {
		t.Errorf("Author = %q", book.Author)
	}
}

func TestFetchBookMissingMetadataPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/11/11-0.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rawBookText))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	book, err := client.FetchBook(context.Background(), "11")
	if err != nil {
		t.Fatalf("FetchBook() error = %v", err)
	}
	if book.Title != "Book 11" {
		t.Errorf("Title = %q, want %q", book.Title, "Book 11")
	}
	if book.Author != "Unknown" {
		t.Errorf("Author = %q, want %q", book.Author, "Unknown")
	}
}

func TestFetchBookNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.FetchBook(context.Background(), "999999")
	if !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestFetchBookIsCachedAndIdempotent(t *testing.T) {
	var textHits atomic.Int64
	srv := newTestServer(t, &textHits)
	client := newTestClient(t, srv.URL)

	first, err := client.FetchBook(context.Background(), "11")
	if err != nil {
		t.Fatalf("FetchBook() error = %v", err)
	}
	second, err := client.FetchBook(context.Background(), "11")
	if err != nil {
		t.Fatalf("FetchBook() second call error = %v", err)
	}

	if first.Text != second.Text || first.Title != second.Title {
		t.Error("repeated fetches returned different books")
	}
	if hits := textHits.Load(); hits != 1 {
		t.Errorf("text endpoint hit %d times, want 1", hits)
	}
}

func TestFetchBookServedFromDiskAfterRestart(t *testing.T) {
	var textHits atomic.Int64
	srv := newTestServer(t, &textHits)

	store, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, err := mustClient(t, srv.URL, store).FetchBook(context.Background(), "11")
	if err != nil {
		t.Fatalf("FetchBook() error = %v", err)
	}

	// A fresh client over the same cache dir simulates a process restart.
	second, err := mustClient(t, srv.URL, store).FetchBook(context.Background(), "11")
	if err != nil {
		t.Fatalf("FetchBook() error = %v", err)
	}

	if first.Text != second.Text {
		t.Error("disk-cached book differs from the fetched one")
	}
	if hits := textHits.Load(); hits != 1 {
		t.Errorf("text endpoint hit %d times, want 1", hits)
	}
}

func mustClient(t *testing.T, baseURL string, store *cache.DiskCache) *Client {
	t.Helper()
	client, err := NewClient(NewClientParams{BaseURL: baseURL, Store: store})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestStripBoilerplateWithoutMarkers(t *testing.T) {
	text := "Just a plain text\nwith no markers at all."
	if got := stripBoilerplate(text); got != text {
		t.Errorf("stripBoilerplate() = %q, want input unchanged", got)
	}
}
