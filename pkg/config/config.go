package config

import "time"

// Config is built once at startup and handed to the wire providers.
type Config struct {
	UnsplashAccessKey string `mapstructure:"unsplash_access_key"`
	UnsplashAPIURL    string `mapstructure:"unsplash_api_url"`

	ListenPort  int `mapstructure:"listen_port"`
	MetricsPort int `mapstructure:"metrics_port"`

	CacheBackend string `mapstructure:"cache_backend"`
	CacheDir     string `mapstructure:"cache_dir"`

	Minio MinioConfig `mapstructure:",squash"`
	Mongo MongoConfig `mapstructure:",squash"`

	DedupeMode string `mapstructure:"dedupe_mode"`
	LockDir    string `mapstructure:"lock_dir"`

	AllowedDomains []string `mapstructure:"allowed_domains"`

	SearchTimeout   time.Duration `mapstructure:"search_timeout"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	PopulateTimeout time.Duration `mapstructure:"populate_timeout"`

	DefaultDimension      int  `mapstructure:"default_dimension"`
	MaxDimension          int  `mapstructure:"max_dimension"`
	DistinctErrorStatuses bool `mapstructure:"distinct_error_statuses"`

	Log LogConfig `mapstructure:",squash"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"minio_endpoint"`
	AccessKey string `mapstructure:"minio_access_key"`
	SecretKey string `mapstructure:"minio_secret_key"`
	Bucket    string `mapstructure:"minio_bucket"`
	Location  string `mapstructure:"minio_location"`
	UseSSL    bool   `mapstructure:"minio_ssl"`
}

type MongoConfig struct {
	ConnectionString string `mapstructure:"mongo_connection_string"`
	Database         string `mapstructure:"mongo_database"`
	GridFSBucket     string `mapstructure:"gridfs_bucket"`
}

type LogConfig struct {
	LogLevel      string `mapstructure:"log_level"`
	LogFilePath   string `mapstructure:"log_file_path"`
	LogMaxSize    int    `mapstructure:"log_max_size"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogCompress   bool   `mapstructure:"log_compress"`
}

const (
	BackendDisk   = "disk"
	BackendMinio  = "minio"
	BackendGridFS = "gridfs"

	DedupeSingleflight = "singleflight"
	DedupeFlock        = "flock"
	DedupeNone         = "none"
)
