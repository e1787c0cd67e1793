package gutenberg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/castgraph/backend/pkg/cache"
	"github.com/castgraph/backend/pkg/logger"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"
)

// ErrBookNotFound is returned when the text repository has no book for the
// requested id.
var ErrBookNotFound = errors.New("book not found")

// Gutenberg license boilerplate markers. Everything outside the two marker
// lines is stripped from the downloaded text.
const (
	startMarker = "*** START OF"
	endMarker   = "*** END OF"
)

const defaultBaseURL = "https://www.gutenberg.org"

// Book is a fetched public-domain text with its metadata. Immutable once
// fetched; cached under its id.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Client fetches book text and metadata from a Gutenberg-style text
// repository. Fetched books are kept in an in-process LRU and persisted in
// the disk cache, so repeated calls for the same id never hit the network.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *cache.DiskCache

	memory *lru.Cache[string, *Book]
	group  singleflight.Group
}

// NewClientParams defines the configuration for creating a Client.
//
// BaseURL defaults to the public Project Gutenberg host. Store is required.
// MemoryCacheSize bounds the in-process LRU (default 16 books).
type NewClientParams struct {
	BaseURL         string
	Store           *cache.DiskCache
	HTTPClient      *http.Client
	MemoryCacheSize int
}

// NewClient creates a Client configured with the provided parameters.
func NewClient(params NewClientParams) (*Client, error) {
	if params.Store == nil {
		return nil, errors.New("a disk cache is required")
	}

	baseURL := strings.TrimRight(params.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	size := params.MemoryCacheSize
	if size <= 0 {
		size = 16
	}
	memory, err := lru.New[string, *Book](size)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		store:      params.Store,
		memory:     memory,
	}, nil
}

// FetchBook returns the cleaned text and metadata for the given book id.
// The first call downloads and caches the book; later calls are served from
// the LRU or the disk cache. Concurrent calls for the same id share one
// download.
func (c *Client) FetchBook(ctx context.Context, id string) (*Book, error) {
	if book, ok := c.memory.Get(id); ok {
		return book, nil
	}

	book := &Book{}
	if err := c.store.Read(cache.CategoryBooks, id, book); err == nil {
		c.memory.Add(id, book)
		return book, nil
	}

	result, err, _ := c.group.Do(id, func() (any, error) {
		return c.download(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return result.(*Book), nil
}

func (c *Client) download(ctx context.Context, id string) (*Book, error) {
	textURL := fmt.Sprintf("%s/files/%s/%s-0.txt", c.baseURL, id, id)
	raw, status, err := c.get(ctx, textURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download book text: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, ErrBookNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("text repository returned status %d for book %s", status, id)
	}

	title, author := c.fetchMetadata(ctx, id)

	book := &Book{
		ID:     id,
		Title:  title,
		Author: author,
		Text:   stripBoilerplate(string(raw)),
	}

	if err := c.store.Write(cache.CategoryBooks, id, book); err != nil {
		return nil, err
	}
	c.memory.Add(id, book)

	logger.Info("[Gutenberg] Fetched book", "id", id, "title", title)
	return book, nil
}

// fetchMetadata scrapes the book's landing page for its title and author.
// Metadata is best-effort: any failure falls back to placeholder values.
func (c *Client) fetchMetadata(ctx context.Context, id string) (string, string) {
	title := fmt.Sprintf("Book %s", id)
	author := "Unknown"

	pageURL := fmt.Sprintf("%s/ebooks/%s", c.baseURL, id)
	raw, status, err := c.get(ctx, pageURL)
	if err != nil || status != http.StatusOK {
		logger.Debug("[Gutenberg] Metadata page unavailable", "id", id, "err", err)
		return title, author
	}

	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return title, author
	}

	if h1 := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "h1"
	}); h1 != nil {
		if text := strings.TrimSpace(nodeText(h1)); text != "" {
			title = text
		}
	}

	if a := findFirst(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "a" {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key == "href" && strings.Contains(attr.Val, "/ebooks/author/") {
				return true
			}
		}
		return false
	}); a != nil {
		if text := strings.TrimSpace(nodeText(a)); text != "" {
			author = text
		}
	}

	return title, author
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// stripBoilerplate removes the Gutenberg license header and footer. The main
// text sits between the line containing the start marker and the line
// containing the end marker. When either marker is missing the raw text is
// returned unmodified.
func stripBoilerplate(text string) string {
	lines := strings.Split(text, "\n")

	start := -1
	end := -1
	for i, line := range lines {
		if start < 0 && strings.Contains(line, startMarker) {
			start = i + 1
			continue
		}
		if start >= 0 && strings.Contains(line, endMarker) {
			end = i
			break
		}
	}

	if start < 0 || end < 0 {
		return text
	}

	return strings.Join(lines[start:end], "\n")
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, match); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return builder.String()
}
