package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// Config holds the configuration for the MediTalk server.
type Config struct {
	// Listen is the address the MediTalk server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the public base URL of the server, used in emails.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SessionKey is the key used to sign the session cookie.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Session holds the session directory configuration.
	Session *SessionConfig `yaml:"session" mapstructure:"session"`
	// Content holds the static content configuration.
	Content *ContentConfig `yaml:"content" mapstructure:"content"`
	// Cache holds the cache backend configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Stream holds the stream rendering configuration.
	Stream *StreamConfig `yaml:"stream" mapstructure:"stream"`
	// Email holds the email configuration.
	Email *EmailConfig `yaml:"email" mapstructure:"email"`
	// Gravatar holds the configuration for Gravatar profile pictures.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
	// Setup holds the values used to seed an empty database.
	Setup *SetupConfig `yaml:"setup" mapstructure:"setup"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// SessionConfig holds the session configuration.
type SessionConfig struct {
	// IdleTimeout is how long a session may stay unused before the sweep removes it.
	IdleTimeout time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// SweepInterval is how often the sweep runs.
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
	// CookieMaxAge is the max age of the session cookie in seconds.
	CookieMaxAge int `yaml:"cookie_max_age" mapstructure:"cookie_max_age"`
}

// ContentConfig holds the configuration for static content composition.
type ContentConfig struct {
	// Dir is the directory static content is read from.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Cache enables memoization of loaded files.
	Cache bool `yaml:"cache" mapstructure:"cache"`
	// MaxIncludeDepth bounds recursive includes.
	MaxIncludeDepth int `yaml:"max_include_depth" mapstructure:"max_include_depth"`
}

// CacheConfig holds the configuration for the cache backend.
type CacheConfig struct {
	// Type is the type of cache to use (memory or redis).
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the redis server.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// StreamConfig holds the configuration for streams.
type StreamConfig struct {
	// PostLimit is the number of posts shown in a stream.
	PostLimit int `yaml:"post_limit" mapstructure:"post_limit"`
}

// EmailConfig holds the email configuration.
type EmailConfig struct {
	// Enabled indicates whether emails are sent.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// SMTPHost is the SMTP server host.
	SMTPHost string `yaml:"smtp_host" mapstructure:"smtp_host"`
	// SMTPPort is the SMTP server port.
	SMTPPort int `yaml:"smtp_port" mapstructure:"smtp_port"`
	// Username is the SMTP username.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the SMTP password.
	Password string `yaml:"password" mapstructure:"password"`
	// FromEmail is the sender address.
	FromEmail string `yaml:"from_email" mapstructure:"from_email"`
	// FromName is the sender name.
	FromName string `yaml:"from_name" mapstructure:"from_name"`
	// UseTLS indicates whether to use STARTTLS for the SMTP connection.
	UseTLS bool `yaml:"use_tls" mapstructure:"use_tls"`
	// UseSSL indicates whether to use implicit TLS for the SMTP connection.
	UseSSL bool `yaml:"use_ssl" mapstructure:"use_ssl"`
	// InsecureSkipVerify indicates whether to skip TLS certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar profile pictures are enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image type when no Gravatar exists.
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images (g, pg, r, x).
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// SetupConfig holds the default administrator created by the seed command.
type SetupConfig struct {
	AdminUsername string `yaml:"admin_username" mapstructure:"admin_username"`
	AdminPassword string `yaml:"admin_password" mapstructure:"admin_password"`
	AdminEmail    string `yaml:"admin_email" mapstructure:"admin_email"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("MEDITALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.meditalk")
		v.AddConfigPath("/etc/meditalk")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
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
	v.SetDefault("listen", "0.0.0.0:10032")
	v.SetDefault("server_url", "http://localhost:10032")
	v.SetDefault("session_key", "")

	v.SetDefault("database.path", "./data/meditalk.db")

	v.SetDefault("session.idle_timeout", 30*time.Minute)
	v.SetDefault("session.sweep_interval", time.Minute)
	v.SetDefault("session.cookie_max_age", 172800) // 48 hours

	v.SetDefault("content.dir", "./content")
	v.SetDefault("content.cache", true)
	v.SetDefault("content.max_include_depth", 10)

	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")

	v.SetDefault("stream.post_limit", 10)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_email", "")
	v.SetDefault("email.from_name", "MediTalk Admin")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("email.insecure_skip_verify", false)

	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 48)

	v.SetDefault("setup.admin_username", "meditalk")
	v.SetDefault("setup.admin_password", "")
	v.SetDefault("setup.admin_email", "")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing meditalk config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Session == nil {
		return fmt.Errorf("missing session config")
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session idle timeout must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session sweep interval must be positive")
	}

	if c.Content == nil || c.Content.Dir == "" {
		return fmt.Errorf("content directory is required")
	}
	if c.Content.MaxIncludeDepth < 0 {
		return fmt.Errorf("max include depth must not be negative")
	}

	if c.Stream == nil || c.Stream.PostLimit <= 0 {
		return fmt.Errorf("stream post limit must be positive")
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is configured")
		}
		if c.Cache.Type != CacheTypeMemory && c.Cache.Type != CacheTypeRedis {
			return fmt.Errorf("unknown cache type %q", c.Cache.Type)
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory,
		}
	}

	if c.Email != nil && c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required when email is enabled") //nolint:staticcheck
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("from email is required when email is enabled")
		}
	}

	if c.Gravatar != nil && c.Gravatar.Enabled {
		if c.Gravatar.Size < 1 || c.Gravatar.Size > 2048 {
			return fmt.Errorf("gravatar size must be between 1 and 2048")
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.ServerURL = urlSanitize(c.ServerURL)
	if c.Setup != nil {
		c.Setup.AdminUsername = strings.TrimSpace(c.Setup.AdminUsername)
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}
