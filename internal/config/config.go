package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendMongo  = "mongo"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

type Config struct {
	Port string `envconfig:"PORT" default:"3001"`

	StoreBackend  string `envconfig:"STORE_BACKEND" default:"mongo"`
	MongoURI      string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"browsecart"`
	DBUrl         string `envconfig:"DB_URL"`

	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	JWTSecret      string        `envconfig:"JWT_SECRET"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	PasswordScheme string        `envconfig:"PASSWORD_SCHEME" default:"bcrypt"`

	RateLimit      float64       `envconfig:"RATE_LIMIT" default:"10"`
	RateBurst      int           `envconfig:"RATE_BURST" default:"20"`
	AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	MaxBodyBytes   int64         `envconfig:"MAX_BODY_BYTES" default:"10485760"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
}

func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using environment and defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case BackendMongo, BackendMemory:
	case BackendMySQL:
		if c.DBUrl == "" {
			return fmt.Errorf("DB_URL is required when STORE_BACKEND=%s", BackendMySQL)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
