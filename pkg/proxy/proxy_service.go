package proxy

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thebartekbanach/imgsearch/pkg/logging"
	"github.com/thebartekbanach/imgsearch/pkg/metrics"
	"github.com/thebartekbanach/imgsearch/pkg/processor"
	"github.com/thebartekbanach/imgsearch/pkg/resolver"
)

type ProxyServiceConfig struct {
	DefaultDimension      int
	MaxDimension          int
	DistinctErrorStatuses bool
}

type proxyService struct {
	config    ProxyServiceConfig
	resolver  resolver.ImageResolver
	processor processor.ProcessingService
	logger    logrus.FieldLogger
}

var _ ProxyService = (*proxyService)(nil)

func NewProxyService(
	config ProxyServiceConfig,
	resolver resolver.ImageResolver,
	processor processor.ProcessingService,
	logger logrus.FieldLogger,
) ProxyService {
	return &proxyService{
		config:    config,
		resolver:  resolver,
		processor: processor,
		logger:    logger,
	}
}

type requestState string

const (
	stateParsing      requestState = "parsing"
	stateResolving    requestState = "resolving"
	stateTransforming requestState = "transforming"
	stateResponding   requestState = "responding"
	stateDone         requestState = "done"
	stateErrored      requestState = "errored"
)

func (p *proxyService) Handle(ctx context.Context, rawRequestURL string, responseWriter ProxyResponseWriter) {
	start := time.Now()
	log := p.logger.WithFields(logrus.Fields{
		"request_id": logging.RequestIDFromContext(ctx),
		"url":        rawRequestURL,
	})

	fail := func(state requestState, err error) {
		kind := errorKind(err)
		status := p.errorStatus(err)

		metrics.Requests.WithLabelValues(kind).Inc()
		metrics.RequestDuration.Observe(time.Since(start).Seconds())
		log.WithFields(logrus.Fields{
			"state":       string(stateErrored),
			"failed_in":   string(state),
			"error_kind":  kind,
			"status_code": status,
			"duration":    time.Since(start).String(),
		}).WithError(err).Warn("request failed")

		responseWriter.WriteError(status)
	}

	request, err := p.parseRequest(rawRequestURL)
	if err != nil {
		fail(stateParsing, err)
		return
	}

	log = log.WithFields(logging.RequestFields(logging.RequestIDFromContext(ctx), request.Query, request.Width, request.Height))
	log.WithField("state", stateResolving).Debug("resolving image")

	resolution, err := p.resolver.Resolve(ctx, request.Query)
	if err != nil {
		fail(stateResolving, err)
		return
	}
	defer resolution.Reader.Close()

	log = log.WithField("cache_hit", resolution.FromCache)
	log.WithField("state", stateTransforming).Debug(resolution.Message)

	output, err := p.processor.Process(ctx, resolution.Reader, request.Width, request.Height)
	if err != nil {
		fail(stateTransforming, err)
		return
	}

	log.WithField("state", stateResponding).Debug("streaming response")
	responseWriter.WriteOK(p.processor.ContentType(), output)

	metrics.Requests.WithLabelValues("ok").Inc()
	metrics.RequestDuration.Observe(time.Since(start).Seconds())
	log.WithFields(logrus.Fields{
		"state":    stateDone,
		"duration": time.Since(start).String(),
	}).Info(resolution.Message)
}
