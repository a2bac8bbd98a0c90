package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Blob     BlobConfig
	AI       AIConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	// Backend is the startup default ("local" | "cloud"); the persisted
	// preference file overrides it once written.
	Backend        string
	DataDir        string // directory for the embedded database and preference file
	TenantID       string // tenant/account identity for this session
	PreferenceFile string // persisted backend choice, relative to DataDir when not absolute
}

// DatabaseConfig holds postgres connection settings for the cloud backend.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN returns the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings for the cloud apply lock.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BlobConfig selects how uploaded files are turned into references.
type BlobConfig struct {
	// Driver is "inline" (base64 data URIs) or "s3".
	Driver       string
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
}

// AIConfig holds settings for the recommendation collaborator.
type AIConfig struct {
	Enabled bool
	APIKey  string
	Model   string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SHOPBOOK_ prefix (e.g. SHOPBOOK_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/shopbook")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHOPBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Storage: StorageConfig{
			Backend:        v.GetString("storage.backend"),
			DataDir:        v.GetString("storage.data_dir"),
			TenantID:       v.GetString("storage.tenant_id"),
			PreferenceFile: v.GetString("storage.preference_file"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Blob: BlobConfig{
			Driver:       v.GetString("blob.driver"),
			Endpoint:     v.GetString("blob.endpoint"),
			Region:       v.GetString("blob.region"),
			Bucket:       v.GetString("blob.bucket"),
			AccessKey:    v.GetString("blob.access_key"),
			SecretKey:    v.GetString("blob.secret_key"),
			UseSSL:       v.GetBool("blob.use_ssl"),
			UsePathStyle: v.GetBool("blob.use_path_style"),
		},
		AI: AIConfig{
			Enabled: v.GetBool("ai.enabled"),
			APIKey:  v.GetString("ai.api_key"),
			Model:   v.GetString("ai.model"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "local", "cloud":
	default:
		return fmt.Errorf("storage.backend must be \"local\" or \"cloud\", got %q", c.Storage.Backend)
	}
	if c.Storage.TenantID == "" {
		return fmt.Errorf("storage.tenant_id is required")
	}
	switch c.Blob.Driver {
	case "inline", "s3":
	default:
		return fmt.Errorf("blob.driver must be \"inline\" or \"s3\", got %q", c.Blob.Driver)
	}
	if c.Storage.Backend == "cloud" && c.Database.Host == "" {
		return fmt.Errorf("database.host is required for the cloud backend")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "shopbook")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.preference_file", "backend.pref")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("database.conn_max_idle_time", 10)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("blob.driver", "inline")
	v.SetDefault("blob.region", "us-east-1")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash-001")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}
