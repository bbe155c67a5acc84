// Package config loads eaccore settings: built-in defaults, then an optional
// YAML file, then EAC_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"eaccore/internal/blob"
	"eaccore/internal/persistence"
)

// Identity modes.
const (
	IdentityStatic  = "static"
	IdentityJWT     = "jwt"
	IdentitySession = "session"
)

type S3 struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	PublicBaseURL   string `yaml:"public_base_url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Secure          bool   `yaml:"secure"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

type Blob struct {
	Driver       string `yaml:"driver"`
	FSRoot       string `yaml:"fs_root"`
	FSPublicBase string `yaml:"fs_public_base"`
	S3           S3     `yaml:"s3"`
	MinIO        MinIO  `yaml:"minio"`
}

type Database struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Identity selects how the calling principal is resolved. Static mode signs
// every call in as Subject; an empty Subject means nobody is signed in.
type Identity struct {
	Mode      string        `yaml:"mode"`
	Subject   string        `yaml:"subject"`
	Name      string        `yaml:"name"`
	Role      string        `yaml:"role"`
	JWTSecret string        `yaml:"jwt_secret"`
	RedisURL  string        `yaml:"redis_url"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Metrics struct {
	Namespace string `yaml:"namespace"`
}

type Config struct {
	Blob     Blob     `yaml:"blob"`
	Database Database `yaml:"database"`
	Identity Identity `yaml:"identity"`
	Log      Log      `yaml:"log"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Default returns the settings used when nothing is configured: filesystem
// blobs under ./blobdata, a local SQLite file, and no signed-in principal.
func Default() Config {
	return Config{
		Blob: Blob{
			Driver: string(blob.DriverFilesystem),
			FSRoot: "./blobdata",
			S3:     S3{Region: "us-east-1"},
			MinIO:  MinIO{Region: "us-east-1"},
		},
		Database: Database{
			Driver:     string(persistence.DriverSQLite),
			SQLitePath: "./eaccore.db",
		},
		Identity: Identity{Mode: IdentityStatic, TokenTTL: 12 * time.Hour},
		Log:      Log{Level: "info"},
		Metrics:  Metrics{Namespace: "eaccore"},
	}
}

// Load layers the YAML file at path (skipped when path is empty) and the
// environment over Default, then validates the result.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	c.Blob.Driver = getenv("EAC_BLOB_DRIVER", c.Blob.Driver)
	c.Blob.FSRoot = getenv("EAC_BLOB_FS_ROOT", c.Blob.FSRoot)
	c.Blob.FSPublicBase = getenv("EAC_BLOB_FS_PUBLIC_BASE", c.Blob.FSPublicBase)

	c.Blob.S3.Region = getenv("EAC_S3_REGION", c.Blob.S3.Region)
	c.Blob.S3.Bucket = getenv("EAC_S3_BUCKET", c.Blob.S3.Bucket)
	c.Blob.S3.Endpoint = getenv("EAC_S3_ENDPOINT", c.Blob.S3.Endpoint)
	c.Blob.S3.PublicBaseURL = getenv("EAC_S3_PUBLIC_BASE_URL", c.Blob.S3.PublicBaseURL)
	c.Blob.S3.AccessKeyID = getenv("EAC_S3_ACCESS_KEY_ID", c.Blob.S3.AccessKeyID)
	c.Blob.S3.SecretAccessKey = getenv("EAC_S3_SECRET_ACCESS_KEY", c.Blob.S3.SecretAccessKey)
	c.Blob.S3.PathStyle = getenvBool("EAC_S3_PATH_STYLE", c.Blob.S3.PathStyle)

	c.Blob.MinIO.Endpoint = getenv("EAC_MINIO_ENDPOINT", c.Blob.MinIO.Endpoint)
	c.Blob.MinIO.Bucket = getenv("EAC_MINIO_BUCKET", c.Blob.MinIO.Bucket)
	c.Blob.MinIO.Region = getenv("EAC_MINIO_REGION", c.Blob.MinIO.Region)
	c.Blob.MinIO.AccessKeyID = getenv("EAC_MINIO_ACCESS_KEY", c.Blob.MinIO.AccessKeyID)
	c.Blob.MinIO.SecretAccessKey = getenv("EAC_MINIO_SECRET_KEY", c.Blob.MinIO.SecretAccessKey)
	c.Blob.MinIO.Secure = getenvBool("EAC_MINIO_SECURE", c.Blob.MinIO.Secure)
	c.Blob.MinIO.PublicBaseURL = getenv("EAC_MINIO_PUBLIC_BASE_URL", c.Blob.MinIO.PublicBaseURL)

	c.Database.Driver = getenv("EAC_DB_DRIVER", c.Database.Driver)
	c.Database.SQLitePath = getenv("EAC_SQLITE_PATH", c.Database.SQLitePath)
	c.Database.PostgresDSN = getenv("EAC_POSTGRES_DSN", c.Database.PostgresDSN)

	c.Identity.Mode = getenv("EAC_IDENTITY_MODE", c.Identity.Mode)
	c.Identity.Subject = getenv("EAC_IDENTITY_SUBJECT", c.Identity.Subject)
	c.Identity.Name = getenv("EAC_IDENTITY_NAME", c.Identity.Name)
	c.Identity.Role = getenv("EAC_IDENTITY_ROLE", c.Identity.Role)
	c.Identity.JWTSecret = getenv("EAC_JWT_SECRET", c.Identity.JWTSecret)
	c.Identity.RedisURL = getenv("EAC_REDIS_URL", c.Identity.RedisURL)
	c.Identity.TokenTTL = getenvDuration("EAC_TOKEN_TTL", c.Identity.TokenTTL)

	c.Log.Level = getenv("EAC_LOG_LEVEL", c.Log.Level)
	c.Metrics.Namespace = getenv("EAC_METRICS_NAMESPACE", c.Metrics.Namespace)
}

// Validate rejects unknown drivers and incomplete driver settings.
func (c Config) Validate() error {
	var errs []error
	switch blob.Driver(c.Blob.Driver) {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob.s3.bucket is required for the s3 driver"))
		}
	case blob.DriverMinIO:
		if c.Blob.MinIO.Endpoint == "" || c.Blob.MinIO.Bucket == "" {
			errs = append(errs, errors.New("blob.minio.endpoint and blob.minio.bucket are required for the minio driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Blob.Driver))
	}

	switch d := persistence.Driver(c.Database.Driver); {
	case d == "" || !d.Valid():
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	case d == persistence.DriverPostgres && c.Database.PostgresDSN == "":
		errs = append(errs, errors.New("database.postgres_dsn is required for the postgres driver"))
	}

	switch c.Identity.Mode {
	case IdentityStatic:
	case IdentityJWT:
		if c.Identity.JWTSecret == "" {
			errs = append(errs, errors.New("identity.jwt_secret is required for jwt mode"))
		}
	case IdentitySession:
		if c.Identity.RedisURL == "" {
			errs = append(errs, errors.New("identity.redis_url is required for session mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown identity mode %q", c.Identity.Mode))
	}
	return errors.Join(errs...)
}

// BlobConfig maps the blob section onto the driver factory settings.
func (c Config) BlobConfig() blob.Config {
	return blob.Config{
		Driver:       blob.Driver(c.Blob.Driver),
		FSRoot:       c.Blob.FSRoot,
		FSPublicBase: c.Blob.FSPublicBase,
		S3: blob.S3Config{
			Region:          c.Blob.S3.Region,
			Bucket:          c.Blob.S3.Bucket,
			Endpoint:        c.Blob.S3.Endpoint,
			PublicBaseURL:   c.Blob.S3.PublicBaseURL,
			AccessKeyID:     c.Blob.S3.AccessKeyID,
			SecretAccessKey: c.Blob.S3.SecretAccessKey,
			PathStyle:       c.Blob.S3.PathStyle,
		},
		MinIO: blob.MinIOConfig{
			Endpoint:        c.Blob.MinIO.Endpoint,
			Bucket:          c.Blob.MinIO.Bucket,
			Region:          c.Blob.MinIO.Region,
			AccessKeyID:     c.Blob.MinIO.AccessKeyID,
			SecretAccessKey: c.Blob.MinIO.SecretAccessKey,
			Secure:          c.Blob.MinIO.Secure,
			PublicBaseURL:   c.Blob.MinIO.PublicBaseURL,
		},
	}
}

// PersistenceConfig maps the database section onto the store factory settings.
func (c Config) PersistenceConfig() persistence.Config {
	return persistence.Config{
		Driver:      persistence.Driver(c.Database.Driver),
		SQLitePath:  c.Database.SQLitePath,
		PostgresDSN: c.Database.PostgresDSN,
	}
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
