package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/ryanuber/go-glob"
	"github.com/sirupsen/logrus"

	"github.com/thebartekbanach/imgsearch/pkg/cache"
	"github.com/thebartekbanach/imgsearch/pkg/dedupe"
	"github.com/thebartekbanach/imgsearch/pkg/filefetcher"
	"github.com/thebartekbanach/imgsearch/pkg/logging"
	"github.com/thebartekbanach/imgsearch/pkg/metrics"
	"github.com/thebartekbanach/imgsearch/pkg/search"
)

type Config struct {
	AllowedDomains  []string
	PopulateTimeout time.Duration
}

type imageResolver struct {
	config  Config
	cache   cache.CacheService
	search  search.ImageSearchClient
	fetcher filefetcher.Fetcher
	group   dedupe.Group
	logger  logrus.FieldLogger
}

var _ ImageResolver = (*imageResolver)(nil)

func NewImageResolver(
	config Config,
	cacheService cache.CacheService,
	searchClient search.ImageSearchClient,
	fetcher filefetcher.Fetcher,
	group dedupe.Group,
	logger logrus.FieldLogger,
) ImageResolver {
	if config.PopulateTimeout <= 0 {
		config.PopulateTimeout = time.Minute
	}

	return &imageResolver{
		config:  config,
		cache:   cacheService,
		search:  searchClient,
		fetcher: fetcher,
		group:   group,
		logger:  logger,
	}
}

func (r *imageResolver) Resolve(ctx context.Context, query string) (Resolution, error) {
	exists, err := r.cache.Exists(ctx, query)
	if err != nil {
		return Resolution{}, err
	}

	if exists {
		reader, err := r.cache.OpenRead(ctx, query)
		if err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return Resolution{Reader: reader, FromCache: true, Message: "from file"}, nil
		}
		if !errors.Is(err, cache.ErrEntryNotFound) {
			return Resolution{}, err
		}
	}

	metrics.CacheLookups.WithLabelValues("miss").Inc()

	key, err := cache.DeriveKey(query)
	if err != nil {
		return Resolution{}, err
	}

	_, err, shared := r.group.Do(key, func() (interface{}, error) {
		return nil, r.populate(ctx, query)
	})
	if err != nil {
		return Resolution{}, err
	}

	reader, err := r.cache.OpenRead(ctx, query)
	if err != nil {
		return Resolution{}, err
	}

	reader, width, height, err := probeDimensions(reader)
	if err != nil {
		r.requestLogger(ctx, query).WithError(err).Warn("could not read dimensions of fetched image")
	}

	r.requestLogger(ctx, query).WithField("shared", shared).Debug("cache entry populated")

	return Resolution{
		Reader:    reader,
		FromCache: false,
		Message:   fmt.Sprintf("from web new image: %s, width: %d, height: %d", query, width, height),
		Width:     width,
		Height:    height,
	}, nil
}

// populate stores the first search result for query in the cache. It runs
// detached from the caller's cancellation because other requests may be
// waiting on the same flight.
func (r *imageResolver) populate(ctx context.Context, query string) (err error) {
	log := r.requestLogger(ctx, query)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.PopulateTimeout)
	defer cancel()

	exists, err := r.cache.Exists(ctx, query)
	if err != nil {
		return err
	}
	if exists {
		metrics.CachePopulations.WithLabelValues("present").Inc()
		return nil
	}

	defer func() {
		if err != nil {
			metrics.CachePopulations.WithLabelValues("failed").Inc()
			log.WithError(err).Warn("cache population failed")
		}
	}()

	result, err := r.search.Search(ctx, query)
	if err != nil {
		return err
	}

	if !r.isAllowedImageSourceDomain(result.SourceURL) {
		return fmt.Errorf("%w: %w (%s)", filefetcher.ErrFetchFailed, ErrDomainNotAllowed, result.SourceURL)
	}

	body, err := r.fetcher.Fetch(ctx, result.SourceURL)
	if err != nil {
		return err
	}
	defer body.Close()

	writer, err := r.cache.OpenWrite(ctx, query)
	if err != nil {
		return err
	}

	source := &trackedReader{reader: body}
	if _, err := io.Copy(writer, source); err != nil {
		writer.Abort()
		if source.err != nil {
			return fmt.Errorf("%w: %w", filefetcher.ErrFetchFailed, source.err)
		}
		return fmt.Errorf("writing cache entry: %w", err)
	}

	if err := writer.Close(); err != nil {
		writer.Abort()
		return fmt.Errorf("committing cache entry: %w", err)
	}

	metrics.CachePopulations.WithLabelValues("stored").Inc()
	log.WithFields(logrus.Fields{
		"description": result.Description,
		"source_url":  result.SourceURL,
	}).Info("stored new image")

	return nil
}

func (r *imageResolver) isAllowedImageSourceDomain(sourceImageURL string) bool {
	if len(r.config.AllowedDomains) == 0 {
		return true
	}

	url, err := url.Parse(sourceImageURL)
	if err != nil {
		return false
	}

	sourceImageDomain := url.Hostname()
	for _, allowedDomain := range r.config.AllowedDomains {
		if glob.Glob(allowedDomain, sourceImageDomain) {
			return true
		}
	}

	return false
}

func (r *imageResolver) requestLogger(ctx context.Context, query string) *logrus.Entry {
	return r.logger.WithFields(logrus.Fields{
		"request_id": logging.RequestIDFromContext(ctx),
		"query":      query,
	})
}

// trackedReader remembers read errors so they can be told apart from write
// errors after io.Copy.
type trackedReader struct {
	reader io.Reader
	err    error
}

func (r *trackedReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if err != nil && err != io.EOF {
		r.err = err
	}
	return n, err
}

var ErrDomainNotAllowed = errors.New("source image domain not allowed")
