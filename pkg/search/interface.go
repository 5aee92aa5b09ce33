package search

import "context"

type SearchResult struct {
	Description string
	SourceURL   string
}

// ImageSearchClient finds a single image for a free text query.
type ImageSearchClient interface {
	Search(ctx context.Context, query string) (SearchResult, error)
}
