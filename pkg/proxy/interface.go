package proxy

import (
	"context"
	"io"
)

// ProxyResponseWriter sends the outcome of a request to the client. WriteOK
// takes ownership of reader and closes it.
type ProxyResponseWriter interface {
	WriteOK(contentType string, reader io.ReadCloser)
	WriteError(code int)
}

type ProxyService interface {
	Handle(ctx context.Context, rawRequestURL string, responseWriter ProxyResponseWriter)
}
