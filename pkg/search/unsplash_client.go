package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type httpRequestFunc func(req *http.Request) (*http.Response, error)

type UnsplashConfig struct {
	APIURL    string
	AccessKey string
	Timeout   time.Duration
}

type UnsplashClient struct {
	config      UnsplashConfig
	makeRequest httpRequestFunc
}

var _ ImageSearchClient = (*UnsplashClient)(nil)

func NewUnsplashClient(config UnsplashConfig) ImageSearchClient {
	client := &http.Client{Timeout: config.Timeout}
	return &UnsplashClient{config, client.Do}
}

type unsplashSearchResponse struct {
	Results *[]unsplashPhoto `json:"results"`
}

type unsplashPhoto struct {
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

// Search returns the first photo Unsplash finds for query. It makes exactly
// one request and never retries.
func (c *UnsplashClient) Search(ctx context.Context, query string) (SearchResult, error) {
	req, err := c.buildRequest(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	response, err := c.makeRequest(req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return SearchResult{}, fmt.Errorf("%w: %w (%d)", ErrSearchFailed, ErrResponseStatusNotOK, response.StatusCode)
	}

	var body unsplashSearchResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return SearchResult{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	if body.Results == nil {
		return SearchResult{}, fmt.Errorf("%w: %w", ErrSearchFailed, ErrMalformedResponse)
	}

	if len(*body.Results) == 0 {
		return SearchResult{}, ErrImageNotFound
	}

	photo := (*body.Results)[0]
	if photo.URLs.Regular == "" {
		return SearchResult{}, fmt.Errorf("%w: %w", ErrSearchFailed, ErrMalformedResponse)
	}

	description := photo.Description
	if description == "" {
		description = photo.AltDescription
	}

	return SearchResult{
		Description: description,
		SourceURL:   photo.URLs.Regular,
	}, nil
}

func (c *UnsplashClient) buildRequest(ctx context.Context, query string) (*http.Request, error) {
	params := url.Values{}
	params.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Client-ID "+c.config.AccessKey)
	req.Header.Set("Accept-Version", "v1")

	return req, nil
}

var (
	ErrSearchFailed        = errors.New("image search failed")
	ErrImageNotFound       = errors.New("image search returned no results")
	ErrResponseStatusNotOK = errors.New("search response returned non-200 status code")
	ErrMalformedResponse   = errors.New("search response is missing expected fields")
)
