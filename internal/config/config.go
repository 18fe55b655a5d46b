package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/storefront/pkg/mailer/resend"
)

// Config holds all application settings, parsed from environment
// variables with caarlos0/env.
type Config struct {
	// HTTP server
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// MongoDB
	MongoURI string `env:"MONGO_URI,required"`
	MongoDB  string `env:"MONGO_DB" envDefault:"storefront"`

	// Cache backend: "memory" (default) or "redis".
	CacheDriver string `env:"CACHE_DRIVER" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Auth
	JWTSecret    string        `env:"JWT_SECRET,required"`
	CookieSecret string        `env:"COOKIE_SECRET,required"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// Outbound email
	Resend resend.Config
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
