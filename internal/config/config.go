package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Cookie    CookieConfig    `mapstructure:"cookie"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
	// ClientURL is the single cross-origin client allowed to call the API
	// with credentials and to open realtime connections.
	ClientURL string `mapstructure:"client_url"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "mongo" or "memory"
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether object storage has been configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig defines the access/refresh token pair configuration.
// Access and refresh tokens are signed with distinct secrets.
type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

type CookieConfig struct {
	Domain string `mapstructure:"domain"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type RateLimitConfig struct {
	AuthRPS   float64 `mapstructure:"auth_rps"`
	AuthBurst int     `mapstructure:"auth_burst"`
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

const (
	defaultAccessSecret  = "change-me-access"
	defaultRefreshSecret = "change-me-refresh"
)

// Warnings lists configuration problems that do not prevent startup.
func (c Config) Warnings() []string {
	var warnings []string
	if c.JWT.AccessSecret == defaultAccessSecret {
		warnings = append(warnings, "jwt.access_secret is using the built-in default; set JWT_ACCESS_SECRET before deployment")
	}
	if c.JWT.RefreshSecret == defaultRefreshSecret {
		warnings = append(warnings, "jwt.refresh_secret is using the built-in default; set JWT_REFRESH_SECRET before deployment")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		warnings = append(warnings, "jwt.access_secret and jwt.refresh_secret are identical")
	}
	return warnings
}

// LoadConfig reads configuration from a dotenv file, an optional config.yaml
// under path, and environment variables, in increasing precedence.
func LoadConfig(path string) (config Config, err error) {
	loadDotEnv(path)

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.access_ttl -> JWT_ACCESS_TTL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Short names kept for deployments configured for the previous server.
	_ = v.BindEnv("server.client_url", "SERVER_CLIENT_URL", "CLIENT_URL")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT", "APP_ENV")
	_ = v.BindEnv("server.address", "SERVER_ADDRESS", "PORT")
	_ = v.BindEnv("database.uri", "DATABASE_URI", "MONGODB_URI")

	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.client_url", "http://localhost:5173")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("database.name", "vitaltrack")
	v.SetDefault("jwt.access_secret", defaultAccessSecret)
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_secret", defaultRefreshSecret)
	v.SetDefault("jwt.refresh_ttl", "7d")
	v.SetDefault("cookie.domain", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("ratelimit.auth_rps", 5)
	v.SetDefault("ratelimit.auth_burst", 10)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		durationWithDaysHook(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return
	}

	// A bare PORT value ("5000") is accepted as an address.
	if config.Server.Address != "" && !strings.Contains(config.Server.Address, ":") {
		config.Server.Address = ":" + config.Server.Address
	}

	if config.JWT.AccessTTL <= 0 || config.JWT.RefreshTTL <= 0 {
		return config, fmt.Errorf("jwt ttl values must be positive (access=%s refresh=%s)", config.JWT.AccessTTL, config.JWT.RefreshTTL)
	}

	return config, nil
}

// loadDotEnv loads .env in development and .env.<environment> otherwise.
// Variables already present in the process environment win.
func loadDotEnv(path string) {
	env := os.Getenv("APP_ENV")
	name := ".env"
	if env != "" && env != "development" {
		name = ".env." + env
	}
	_ = godotenv.Load(strings.TrimSuffix(path, "/") + "/" + name)
}

// ParseDuration accepts Go duration syntax plus a whole-day suffix ("7d").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func durationWithDaysHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		return ParseDuration(data.(string))
	}
}
