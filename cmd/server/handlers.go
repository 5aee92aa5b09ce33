package main

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thebartekbanach/imgsearch/pkg/logging"
	"github.com/thebartekbanach/imgsearch/pkg/proxy"
)

func handleRequest(proxyService proxy.ProxyService, requestTimeout time.Duration, logger logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		processingCtx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		requestID := uuid.NewString()
		processingCtx = logging.ContextWithRequestID(processingCtx, requestID)

		request := r.URL.RequestURI()
		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"url":        request,
			"remote":     r.RemoteAddr,
		}).Debug("processing request")

		proxyService.Handle(processingCtx, request, &proxyResponseWriter{w: w, logger: logger.WithField("request_id", requestID)})
	}
}

func newRouter(proxyService proxy.ProxyService, requestTimeout time.Duration, logger logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleRequest(proxyService, requestTimeout, logger))
	return mux
}
