// Package wiki looks up character portrait images through the MediaWiki
// page-image API.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the English Wikipedia API endpoint.
const DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

const thumbnailSize = 300

// ErrNoImage is returned when no page image exists for the given name.
var ErrNoImage = errors.New("no image found")

// Client queries a MediaWiki instance for page thumbnail images.
//
// A Client should be created using NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClientParams defines the configuration parameters for creating a new
// Client. Zero values select the English Wikipedia endpoint and a default
// HTTP client.
type NewClientParams struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates and returns a new Client configured with the provided
// parameters.
func NewClient(params NewClientParams) *Client {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type pageImageResponse struct {
	Query struct {
		Pages map[string]struct {
			Thumbnail struct {
				Source string `json:"source"`
			} `json:"thumbnail"`
		} `json:"pages"`
	} `json:"query"`
}

// ImageURL returns the thumbnail URL of the page matching name, or ErrNoImage
// when the page has no image or does not exist.
func (c *Client) ImageURL(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", name)
	params.Set("prop", "pageimages")
	params.Set("format", "json")
	params.Set("pithumbsize", fmt.Sprintf("%d", thumbnailSize))
	params.Set("redirects", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query image API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image API returned status %d", resp.StatusCode)
	}

	var body pageImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}

	for _, page := range body.Query.Pages {
		if page.Thumbnail.Source != "" {
			return page.Thumbnail.Source, nil
		}
	}
	return "", ErrNoImage
}
