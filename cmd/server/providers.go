package main

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	cacherepositories "github.com/thebartekbanach/imgsearch/pkg/cache/repositories"
	dbconnections "github.com/thebartekbanach/imgsearch/pkg/cache/repositories/connections"
	"github.com/thebartekbanach/imgsearch/pkg/config"
	"github.com/thebartekbanach/imgsearch/pkg/dedupe"
	"github.com/thebartekbanach/imgsearch/pkg/filefetcher"
	"github.com/thebartekbanach/imgsearch/pkg/processor"
	imagingprocessor "github.com/thebartekbanach/imgsearch/pkg/processor/imaging"
	"github.com/thebartekbanach/imgsearch/pkg/proxy"
	"github.com/thebartekbanach/imgsearch/pkg/resolver"
	"github.com/thebartekbanach/imgsearch/pkg/search"
)

func InitializeMinioConnectionConfig(cfg *config.Config, logger *logrus.Logger) dbconnections.MinioBlockStorageProductionConnectionConfig {
	if _, err := url.Parse(cfg.Minio.Endpoint); err != nil {
		logger.Panicf("Error ocurred when parsing minio_endpoint: %s", err)
	}

	return dbconnections.MinioBlockStorageProductionConnectionConfig{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Location:  cfg.Minio.Location,
		Bucket:    cfg.Minio.Bucket,
		UseSSL:    cfg.Minio.UseSSL,
	}
}

func InitializeMinioConnection(ctx context.Context, minioConfig dbconnections.MinioBlockStorageProductionConnectionConfig, logger *logrus.Logger) dbconnections.MinioBlockStorageConnection {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	conn, err := dbconnections.NewMinioBlockStorageProductionConnection(ctx, minioConfig)
	if err != nil {
		logger.Panicf("Error ocurred when initializing Minio connection: %s", err)
	}

	return conn
}

func InitializeMongoConnectionConfig(cfg *config.Config, logger *logrus.Logger) dbconnections.CacheDBConfig {
	parsedConnectionString, err := url.Parse(cfg.Mongo.ConnectionString)
	if err != nil {
		logger.Panicf("Error ocurred when parsing mongo_connection_string: %s", err)
	}

	if parsedConnectionString.Host == "" {
		logger.Panic("mongo_connection_string must contain a host")
	}

	return dbconnections.CacheDBConfig{
		ConnectionString: cfg.Mongo.ConnectionString,
		Database:         cfg.Mongo.Database,
		BucketName:       cfg.Mongo.GridFSBucket,
	}
}

func InitializeMongoConnection(ctx context.Context, mongoConfig dbconnections.CacheDBConfig, logger *logrus.Logger) (dbconnections.CacheDBConnection, func()) {
	connectCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	conn, err := dbconnections.NewCacheDBProductionConnection(connectCtx, mongoConfig)
	if err != nil {
		logger.Panicf("Error ocurred when initializing MongoDB connection: %s", err)
	}

	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := conn.Disconnect(ctx); err != nil {
			logger.WithError(err).Warn("could not disconnect from MongoDB")
		}
	}

	return conn, disconnect
}

// InitializeImagesStorage picks the storage for cache_backend. Only the
// selected backend is connected to.
func InitializeImagesStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (cacherepositories.CachedImagesStorage, func()) {
	switch cfg.CacheBackend {
	case config.BackendMinio:
		conn := InitializeMinioConnection(ctx, InitializeMinioConnectionConfig(cfg, logger), logger)
		return cacherepositories.NewMinioImagesStorage(conn), func() {}

	case config.BackendGridFS:
		conn, disconnect := InitializeMongoConnection(ctx, InitializeMongoConnectionConfig(cfg, logger), logger)
		return cacherepositories.NewGridFSImagesStorage(conn), disconnect

	default:
		storage, err := cacherepositories.NewDiskImagesStorage(cfg.CacheDir)
		if err != nil {
			logger.Panicf("Error ocurred when preparing cache directory: %s", err)
		}
		return storage, func() {}
	}
}

func InitializeDedupeGroup(cfg *config.Config, logger *logrus.Logger) dedupe.Group {
	group, err := dedupe.New(cfg.DedupeMode, cfg.LockDir, cfg.PopulateTimeout)
	if err != nil {
		logger.Panicf("Error ocurred when initializing dedupe group: %s", err)
	}

	return group
}

func InitializeSearchClient(cfg *config.Config) search.ImageSearchClient {
	return search.NewUnsplashClient(search.UnsplashConfig{
		APIURL:    cfg.UnsplashAPIURL,
		AccessKey: cfg.UnsplashAccessKey,
		Timeout:   cfg.SearchTimeout,
	})
}

func InitializeFetcher(cfg *config.Config) filefetcher.Fetcher {
	return filefetcher.NewHTTPFetcher(cfg.FetchTimeout)
}

func InitializeProcessingService() processor.ProcessingService {
	return imagingprocessor.NewProcessor(imagingprocessor.DefaultConfig())
}

func InitializeResolverConfig(cfg *config.Config) resolver.Config {
	return resolver.Config{
		AllowedDomains:  cfg.AllowedDomains,
		PopulateTimeout: cfg.PopulateTimeout,
	}
}

func InitializeProxyConfig(cfg *config.Config) proxy.ProxyServiceConfig {
	return proxy.ProxyServiceConfig{
		DefaultDimension:      cfg.DefaultDimension,
		MaxDimension:          cfg.MaxDimension,
		DistinctErrorStatuses: cfg.DistinctErrorStatuses,
	}
}
