package proxy

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type imageRequest struct {
	Query  string
	Width  int
	Height int
}

func (p *proxyService) parseRequest(rawRequestURL string) (imageRequest, error) {
	if rawRequestURL == "" {
		return imageRequest{}, fmt.Errorf("%w: empty request url", ErrBadRequest)
	}

	parsed, err := url.Parse(rawRequestURL)
	if err != nil {
		return imageRequest{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	query := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	if query == "" {
		return imageRequest{}, fmt.Errorf("%w: empty query", ErrBadRequest)
	}

	params := parsed.Query()
	width, err := p.parseDimension(params, "width")
	if err != nil {
		return imageRequest{}, err
	}

	height, err := p.parseDimension(params, "height")
	if err != nil {
		return imageRequest{}, err
	}

	return imageRequest{query, width, height}, nil
}

// parseDimension falls back to the default for absent or non numeric values
// and rejects numbers outside 1..MaxDimension.
func (p *proxyService) parseDimension(params url.Values, name string) (int, error) {
	value, err := strconv.Atoi(params.Get(name))
	if err != nil {
		return p.config.DefaultDimension, nil
	}

	if value < 1 || value > p.config.MaxDimension {
		return 0, fmt.Errorf("%w: %s must be in 1-%d, got %d", ErrBadRequest, name, p.config.MaxDimension, value)
	}

	return value, nil
}
