package filefetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type httpGetFunc func(ctx context.Context, url string) (resp *http.Response, err error)

type HTTPFetcher struct {
	getter httpGetFunc
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher bounds every download, body included, by timeout.
func NewHTTPFetcher(timeout time.Duration) Fetcher {
	client := &http.Client{Timeout: timeout}

	getFunc := func(ctx context.Context, url string) (resp *http.Response, err error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		return client.Do(req)
	}

	return &HTTPFetcher{getFunc}
}

func (fetcher *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	response, err := fetcher.getter(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	err = nil
	if response.StatusCode == http.StatusNotFound {
		err = ErrResponseStatus404
	} else if response.StatusCode < 200 || response.StatusCode > 299 {
		err = ErrResponseStatusNotOK
	}

	if err != nil {
		response.Body.Close()
		return nil, fmt.Errorf("%w: %w (%d)", ErrFetchFailed, err, response.StatusCode)
	}

	return response.Body, nil
}

var (
	ErrFetchFailed         = errors.New("could not fetch image")
	ErrResponseStatusNotOK = errors.New("response returned non-2xx status code")
	ErrResponseStatus404   = errors.New("response returned 404 status code")
)
