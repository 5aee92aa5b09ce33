package config

import (
	"errors"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.UnsplashAccessKey == "" {
		return newFieldError("unsplash_access_key", "is required (set "+CredentialEnv+")")
	}
	if u, err := url.Parse(c.UnsplashAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return newFieldError("unsplash_api_url", "must be an absolute URL")
	}

	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return newFieldError("listen_port", "must be in 1-65535")
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return newFieldError("metrics_port", "must be in 0-65535")
	}
	if c.MetricsPort != 0 && c.MetricsPort == c.ListenPort {
		return newFieldError("metrics_port", "must differ from listen_port")
	}

	if err := c.validateBackend(); err != nil {
		return err
	}

	switch c.DedupeMode {
	case DedupeSingleflight, DedupeNone:
	case DedupeFlock:
		if c.LockDir == "" {
			return newFieldError("lock_dir", "is required when dedupe_mode is flock")
		}
	default:
		return newFieldError("dedupe_mode", "must be singleflight, flock or none")
	}

	if len(c.AllowedDomains) == 0 {
		return newFieldError("allowed_domains", "must not be empty")
	}

	if c.SearchTimeout <= 0 {
		return newFieldError("search_timeout", "must be greater than 0")
	}
	if c.FetchTimeout <= 0 {
		return newFieldError("fetch_timeout", "must be greater than 0")
	}
	if c.RequestTimeout <= 0 {
		return newFieldError("request_timeout", "must be greater than 0")
	}
	if c.PopulateTimeout <= 0 {
		return newFieldError("populate_timeout", "must be greater than 0")
	}

	if c.MaxDimension <= 0 {
		return newFieldError("max_dimension", "must be greater than 0")
	}
	if c.DefaultDimension <= 0 || c.DefaultDimension > c.MaxDimension {
		return newFieldError("default_dimension", "must be in 1-max_dimension")
	}

	if _, err := logrus.ParseLevel(c.Log.LogLevel); err != nil {
		return newFieldError("log_level", err.Error())
	}

	return nil
}

func (c *Config) validateBackend() error {
	switch c.CacheBackend {
	case BackendDisk:
		if c.CacheDir == "" {
			return newFieldError("cache_dir", "is required for the disk backend")
		}
	case BackendMinio:
		required := map[string]string{
			"minio_endpoint":   c.Minio.Endpoint,
			"minio_access_key": c.Minio.AccessKey,
			"minio_secret_key": c.Minio.SecretKey,
			"minio_bucket":     c.Minio.Bucket,
		}
		for _, key := range []string{"minio_endpoint", "minio_access_key", "minio_secret_key", "minio_bucket"} {
			if required[key] == "" {
				return newFieldError(key, "is required for the minio backend")
			}
		}
	case BackendGridFS:
		if c.Mongo.ConnectionString == "" {
			return newFieldError("mongo_connection_string", "is required for the gridfs backend")
		}
		if c.Mongo.Database == "" {
			return newFieldError("mongo_database", "is required for the gridfs backend")
		}
		if c.Mongo.GridFSBucket == "" {
			return newFieldError("gridfs_bucket", "is required for the gridfs backend")
		}
	default:
		return newFieldError("cache_backend", "must be disk, minio or gridfs")
	}

	return nil
}
