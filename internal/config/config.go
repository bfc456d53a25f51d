package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// DocumentDriver selects the backend for the singleton documents.
type DocumentDriver string

const (
	DocumentDriverFile   DocumentDriver = "file"
	DocumentDriverSQLite DocumentDriver = "sqlite"
)

// UploadDriver selects the backend for uploaded assets.
type UploadDriver string

const (
	UploadDriverLocal UploadDriver = "local"
	UploadDriverS3    UploadDriver = "s3"
)

const (
	// MiB is one mebibyte.
	MiB int64 = 1 << 20

	// minSecretLength is the shortest signing secret that does not trigger a warning.
	minSecretLength = 32
)

// Config holds the configuration for the vitrine server.
type Config struct {
	// Listen is the address the vitrine server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// SecretKey is the HMAC key used to sign access tokens.
	// If empty, a random key is generated on every start.
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	// TokenTTL is the lifetime of an issued access token.
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	// CORSOrigins is the list of origins allowed to call the API.
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	// Storage holds the persistence configuration.
	Storage *StorageConfig `yaml:"storage" mapstructure:"storage"`
	// Uploads holds the upload limits.
	Uploads *UploadsConfig `yaml:"uploads" mapstructure:"uploads"`
}

// StorageConfig holds the configuration for documents and uploaded assets.
type StorageConfig struct {
	// Documents configures where the portfolio and admin documents live.
	Documents *DocumentsConfig `yaml:"documents" mapstructure:"documents"`
	// Uploads configures where photos and resumes are stored.
	Uploads *UploadStorageConfig `yaml:"uploads" mapstructure:"uploads"`
}

// DocumentsConfig holds the document store configuration.
type DocumentsConfig struct {
	// Driver is either "file" or "sqlite".
	Driver DocumentDriver `yaml:"driver" mapstructure:"driver"`
	// DataDir is the directory holding portfolio.json and admin.json (file driver).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// SQLitePath is the database file (sqlite driver).
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// UploadStorageConfig holds the blob store configuration.
type UploadStorageConfig struct {
	// Driver is either "local" or "s3".
	Driver UploadDriver `yaml:"driver" mapstructure:"driver"`
	// UploadsDir is the root directory for the local driver.
	UploadsDir string `yaml:"uploads_dir" mapstructure:"uploads_dir"`
	// S3 holds the object storage configuration for the s3 driver.
	S3 *S3Config `yaml:"s3" mapstructure:"s3"`
}

// S3Config holds the configuration for an S3 compatible object store.
type S3Config struct {
	// Endpoint is the host[:port] of the object store, without scheme.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// AccessKeyID is the access key.
	AccessKeyID string `yaml:"access_key_id" mapstructure:"access_key_id"`
	// SecretAccessKey is the secret key.
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	// Bucket is the bucket uploads are written to. It is created if missing.
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	// Region is the bucket region.
	Region string `yaml:"region" mapstructure:"region"`
	// UseSSL enables https towards the endpoint.
	UseSSL bool `yaml:"use_ssl" mapstructure:"use_ssl"`
}

// UploadsConfig holds the upload limits.
type UploadsConfig struct {
	// PhotoMaxBytes is the size ceiling for profile photos.
	PhotoMaxBytes int64 `yaml:"photo_max_bytes" mapstructure:"photo_max_bytes"`
	// ResumeMaxBytes is the size ceiling for resumes.
	ResumeMaxBytes int64 `yaml:"resume_max_bytes" mapstructure:"resume_max_bytes"`
	// PhotoMaxDimension downscales photos to fit a square of this many pixels.
	// 0 keeps photos untouched.
	PhotoMaxDimension int `yaml:"photo_max_dimension" mapstructure:"photo_max_dimension"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// A missing config file is not an error, defaults and environment variables are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("VITRINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindNestedEnv(v)

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vitrine")
		v.AddConfigPath("/etc/vitrine")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with the VITRINE_ prefix override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:8001")
	v.SetDefault("secret_key", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("cors_origins", []string{"*"})

	// Document store defaults
	v.SetDefault("storage.documents.driver", DocumentDriverFile)
	v.SetDefault("storage.documents.data_dir", "./data")
	v.SetDefault("storage.documents.sqlite_path", "./data/vitrine.db")

	// Upload storage defaults
	v.SetDefault("storage.uploads.driver", UploadDriverLocal)
	v.SetDefault("storage.uploads.uploads_dir", "./uploads")

	// Upload limits
	v.SetDefault("uploads.photo_max_bytes", 5*MiB)
	v.SetDefault("uploads.resume_max_bytes", 10*MiB)
	v.SetDefault("uploads.photo_max_dimension", 0)
}

// the auto env function from viper only works for nested structs, if the struct to which a value binds isn't nil.
// The s3 block is nil unless configured, so its variables are bound by hand.
func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("storage.uploads.s3.endpoint", "VITRINE_STORAGE_UPLOADS_S3_ENDPOINT")
	v.MustBindEnv("storage.uploads.s3.access_key_id", "VITRINE_STORAGE_UPLOADS_S3_ACCESS_KEY_ID")
	v.MustBindEnv("storage.uploads.s3.secret_access_key", "VITRINE_STORAGE_UPLOADS_S3_SECRET_ACCESS_KEY")
	v.MustBindEnv("storage.uploads.s3.bucket", "VITRINE_STORAGE_UPLOADS_S3_BUCKET")
	v.MustBindEnv("storage.uploads.s3.region", "VITRINE_STORAGE_UPLOADS_S3_REGION")
	v.MustBindEnv("storage.uploads.s3.use_ssl", "VITRINE_STORAGE_UPLOADS_S3_USE_SSL")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing vitrine config")
	}

	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be greater than 0")
	}

	if c.SecretKey != "" && len(c.SecretKey) < minSecretLength {
		log.Warn("Secret key is shorter than recommended", "length", len(c.SecretKey), "recommended", minSecretLength)
	}

	if c.Storage == nil || c.Storage.Documents == nil || c.Storage.Uploads == nil {
		return fmt.Errorf("missing storage config")
	}

	switch c.Storage.Documents.Driver {
	case DocumentDriverFile:
		if c.Storage.Documents.DataDir == "" {
			return fmt.Errorf("data dir is required when the file document driver is used")
		}
	case DocumentDriverSQLite:
		if c.Storage.Documents.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required when the sqlite document driver is used")
		}
	default:
		return fmt.Errorf("unknown document driver %q", c.Storage.Documents.Driver)
	}

	switch c.Storage.Uploads.Driver {
	case UploadDriverLocal:
		if c.Storage.Uploads.UploadsDir == "" {
			return fmt.Errorf("uploads dir is required when the local upload driver is used")
		}
	case UploadDriverS3:
		s3 := c.Storage.Uploads.S3
		if s3 == nil {
			return fmt.Errorf("missing s3 config")
		}
		if s3.Endpoint == "" {
			return fmt.Errorf("s3 endpoint is required when the s3 upload driver is used")
		}
		if s3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required when the s3 upload driver is used")
		}
		if s3.AccessKeyID == "" || s3.SecretAccessKey == "" {
			return fmt.Errorf("s3 credentials are required when the s3 upload driver is used")
		}
	default:
		return fmt.Errorf("unknown upload driver %q", c.Storage.Uploads.Driver)
	}

	if c.Uploads == nil {
		return fmt.Errorf("missing uploads config")
	}
	if c.Uploads.PhotoMaxBytes <= 0 {
		return fmt.Errorf("photo max bytes must be greater than 0")
	}
	if c.Uploads.ResumeMaxBytes <= 0 {
		return fmt.Errorf("resume max bytes must be greater than 0")
	}
	if c.Uploads.PhotoMaxDimension < 0 {
		return fmt.Errorf("photo max dimension must not be negative")
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)
	c.SecretKey = strings.TrimSpace(c.SecretKey)

	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = urlSanitize(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins

	if c.Storage != nil && c.Storage.Uploads != nil && c.Storage.Uploads.S3 != nil {
		c.Storage.Uploads.S3.Endpoint = urlSanitize(c.Storage.Uploads.S3.Endpoint)
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}

// MaxRequestBytes is the largest request body the server accepts.
// It leaves room for multipart framing on top of the largest upload.
func (c *Config) MaxRequestBytes() int64 {
	limit := c.Uploads.ResumeMaxBytes
	if c.Uploads.PhotoMaxBytes > limit {
		limit = c.Uploads.PhotoMaxBytes
	}
	return limit + MiB
}

// AllowsAnyOrigin reports whether CORS is open to every origin.
func (c *Config) AllowsAnyOrigin() bool {
	return len(c.CORSOrigins) == 0 || lo.Contains(c.CORSOrigins, "*")
}
