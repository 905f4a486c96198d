package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Log struct {
		Level string
	}
	Auth struct {
		JWTSecret       string
		TokenTTLMinutes int
	}
	Holiday struct {
		BaseURL        string
		Country        string
		TimeoutSeconds int
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// TokenTTL is the lifetime of login tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// HolidayTimeout bounds a single holiday lookup.
func (c Config) HolidayTimeout() time.Duration {
	return time.Duration(c.Holiday.TimeoutSeconds) * time.Second
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/tracker.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlminutes", 60)
	v.SetDefault("holiday.baseurl", "https://date.nager.at")
	v.SetDefault("holiday.country", "US")
	v.SetDefault("holiday.timeoutseconds", 5)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "event-exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.TokenTTLMinutes <= 0 {
		return Config{}, fmt.Errorf("auth token ttl must be positive, got %d", cfg.Auth.TokenTTLMinutes)
	}
	if cfg.Holiday.TimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("holiday timeout must be positive, got %d", cfg.Holiday.TimeoutSeconds)
	}

	return cfg, nil
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
