package main

import (
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/thebartekbanach/imgsearch/pkg/proxy"
)

type proxyResponseWriter struct {
	w      http.ResponseWriter
	logger logrus.FieldLogger
}

var _ proxy.ProxyResponseWriter = (*proxyResponseWriter)(nil)

func (w *proxyResponseWriter) WriteOK(contentType string, reader io.ReadCloser) {
	defer reader.Close()

	w.w.Header().Set("Content-Type", contentType)
	w.w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w.w, reader); err != nil {
		w.logger.WithError(err).Warn("response body was not fully written")
	}
}

func (w *proxyResponseWriter) WriteError(code int) {
	w.w.WriteHeader(code)
}
