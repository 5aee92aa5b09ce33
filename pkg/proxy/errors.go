package proxy

import (
	"context"
	"errors"
	"net/http"

	"github.com/thebartekbanach/imgsearch/pkg/filefetcher"
	"github.com/thebartekbanach/imgsearch/pkg/processor"
	"github.com/thebartekbanach/imgsearch/pkg/search"
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, search.ErrImageNotFound):
		return "image_not_found"
	case errors.Is(err, search.ErrSearchFailed):
		return "search_failed"
	case errors.Is(err, filefetcher.ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, processor.ErrTransformFailed):
		return "transform_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}

func (p *proxyService) errorStatus(err error) int {
	if !p.config.DistinctErrorStatuses {
		return http.StatusBadRequest
	}

	switch errorKind(err) {
	case "bad_request":
		return http.StatusBadRequest
	case "image_not_found":
		return http.StatusNotFound
	case "search_failed", "fetch_failed":
		return http.StatusBadGateway
	case "transform_failed":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

var ErrBadRequest = errors.New("bad request")
