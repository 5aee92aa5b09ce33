package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thebartekbanach/imgsearch/pkg/config"
	"github.com/thebartekbanach/imgsearch/pkg/logging"
	"github.com/thebartekbanach/imgsearch/pkg/metrics"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv(config.ConfigPathEnv))
	if err != nil {
		log.Fatalf("could not load configuration: %s", err)
	}

	logger, err := logging.InitLogger(cfg.Log)
	if err != nil {
		log.Fatalf("could not initialize logger: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("cache_backend", cfg.CacheBackend).Info("initializing proxy service")
	proxyService, cleanup := InitializeProxy(ctx, cfg, logger)
	defer cleanup()

	servers := []*http.Server{
		newServer(cfg.ListenPort, newRouter(proxyService, cfg.RequestTimeout, logger)),
	}
	if cfg.MetricsPort != 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		servers = append(servers, newServer(cfg.MetricsPort, mux))
	}

	serveErrors := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.WithField("addr", srv.Addr).Info("listening")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				serveErrors <- err
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErrors:
		logger.WithError(err).Error("server stopped unexpectedly")
	}

	shutdown(servers, logger)
}

func newServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func shutdown(servers []*http.Server, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).WithField("addr", srv.Addr).Warn("graceful shutdown failed")
		}
	}
}
