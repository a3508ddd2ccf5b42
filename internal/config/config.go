package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"

	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Host    string
		Port    int
		BaseURL string
	}
	Database struct {
		Driver string
		Path   string
		URI    string
		Name   string
	}
	Auth struct {
		JWTSecret       string
		TokenTTLMinutes int
	}
	Storage struct {
		Backend   string
		Dir       string
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Addr is the listen address derived from host and port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// legacyEnv maps keys to the unprefixed variable names older deployments set.
var legacyEnv = map[string]string{
	"server.port":    "PORT",
	"server.baseurl": "BASE_URL",
	"database.uri":   "MONGODB_URI",
	"auth.jwtsecret": "JWT_SECRET",
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	_ = godotenv.Load() // optional .env; never overrides the environment

	v := viper.New()
	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.baseurl", "http://localhost:4000")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/shop.db")
	v.SetDefault("database.uri", "mongodb://localhost:27017/e-commerce")
	v.SetDefault("database.name", "e-commerce")
	v.SetDefault("auth.jwtsecret", "secret_ecom")
	v.SetDefault("auth.tokenttlminutes", 0)
	v.SetDefault("storage.backend", BackendLocal)
	v.SetDefault("storage.dir", "upload/images")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "images")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	for key, legacy := range legacyEnv {
		prefixed := "SHOP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverMongoDB:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Storage.Backend {
	case BackendLocal, BackendS3:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendS3 && c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required for the s3 backend")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
