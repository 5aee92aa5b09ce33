package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	envPrefix = "IMGSEARCH"

	// ConfigPathEnv points to an optional config file in any format viper reads.
	ConfigPathEnv = "IMGSEARCH_CONFIG"

	// CredentialEnv holds the Unsplash access key.
	CredentialEnv = "UNSPLASH_API_ACCESS_KEY"
)

// Load reads defaults, the optional config file at path and the environment,
// then validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("unsplash_access_key", envPrefix+"_UNSPLASH_ACCESS_KEY", CredentialEnv); err != nil {
		return nil, fmt.Errorf("could not bind credential env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		listDecodeHook(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("unsplash_api_url", "https://api.unsplash.com")
	v.SetDefault("listen_port", 5000)
	v.SetDefault("metrics_port", 0)
	v.SetDefault("cache_backend", BackendDisk)
	v.SetDefault("cache_dir", "../images")
	v.SetDefault("minio_endpoint", "")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "")
	v.SetDefault("minio_location", "us-east-1")
	v.SetDefault("minio_ssl", false)
	v.SetDefault("mongo_connection_string", "")
	v.SetDefault("mongo_database", "imgsearch")
	v.SetDefault("gridfs_bucket", "images")
	v.SetDefault("dedupe_mode", DedupeSingleflight)
	v.SetDefault("lock_dir", filepath.Join(os.TempDir(), "imgsearch-locks"))
	v.SetDefault("allowed_domains", []string{"*"})
	v.SetDefault("search_timeout", "10s")
	v.SetDefault("fetch_timeout", "30s")
	v.SetDefault("request_timeout", "1m")
	v.SetDefault("populate_timeout", "1m")
	v.SetDefault("default_dimension", 400)
	v.SetDefault("max_dimension", 4096)
	v.SetDefault("distinct_error_statuses", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file_path", "")
	v.SetDefault("log_max_size", 100)
	v.SetDefault("log_max_backups", 10)
	v.SetDefault("log_compress", true)
}

// listDecodeHook accepts comma separated strings for []string fields,
// which is what environment variables carry.
func listDecodeHook() mapstructure.DecodeHookFunc {
	target := reflect.TypeOf([]string{})

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != target || from.Kind() != reflect.String {
			return data, nil
		}

		raw := data.(string)
		if strings.TrimSpace(raw) == "" {
			return []string{}, nil
		}
		return strings.Split(raw, ","), nil
	}
}

func normalize(cfg *Config) {
	cfg.UnsplashAccessKey = strings.TrimSpace(cfg.UnsplashAccessKey)
	cfg.UnsplashAPIURL = strings.TrimRight(strings.TrimSpace(cfg.UnsplashAPIURL), "/")
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	cfg.DedupeMode = strings.ToLower(strings.TrimSpace(cfg.DedupeMode))

	domains := make([]string, 0, len(cfg.AllowedDomains))
	for _, d := range cfg.AllowedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	cfg.AllowedDomains = domains
}
