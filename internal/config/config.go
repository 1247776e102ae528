package config

import (
	"errors"
	"os"
	"time"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Load reads configuration from the environment. MONGO_URI and JWT_SECRET
// have no defaults: the process must not start without them.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         getEnv("MONGO_DB", "devconnect"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
	}

	if cfg.MongoURI == "" {
		return Config{}, errors.New("config: MONGO_URI must be set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
