package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Aliases      AliasesConfig      `mapstructure:"aliases"`
	Registration RegistrationConfig `mapstructure:"registration"`
	Screening    ScreeningConfig    `mapstructure:"screening"`
	Cache        CacheConfig        `mapstructure:"cache"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Domains      DomainsConfig      `mapstructure:"domains"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type AliasesConfig struct {
	// Characters may include confusable homoglyphs; non-canonical ones
	// are stripped during alphabet construction.
	Characters string `mapstructure:"characters"`
	MinLength  int    `mapstructure:"min_length"`
	MaxLength  int    `mapstructure:"max_length"`
}

type RegistrationConfig struct {
	RetryLimit             int `mapstructure:"retry_limit"`
	CollisionWarnThreshold int `mapstructure:"collision_warn_threshold"`
}

type ScreeningConfig struct {
	Enabled          bool               `mapstructure:"enabled"`
	DefaultMessage   string             `mapstructure:"default_message"`
	BlacklistedHosts []string           `mapstructure:"blacklisted_hosts"`
	WhitelistedHosts []string           `mapstructure:"whitelisted_hosts"`
	DNSBLZones       []string           `mapstructure:"dnsbl_zones"`
	SourceMessages   map[string]string  `mapstructure:"source_messages"`
	SafeBrowsing     SafeBrowsingConfig `mapstructure:"safe_browsing"`
}

type SafeBrowsingConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type CacheConfig struct {
	RedirectTTL time.Duration `mapstructure:"redirect_ttl"`
}

type RateLimitConfig struct {
	RedirectPerMinute int `mapstructure:"redirect_per_minute"`
	ShortenPerMinute  int `mapstructure:"shorten_per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

type DomainsConfig struct {
	// BaseURL is the external endpoint short and preview URLs are
	// derived from, e.g. "https://snip.example".
	BaseURL string `mapstructure:"base_url"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
