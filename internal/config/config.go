package config

import (
	"errors"
	"os"
)

// Config carries everything the process needs at startup. The session
// secret has no default on purpose: it must be injected, never compiled in.
type Config struct {
	Port        string
	DBPath      string
	TemplateDir string
	UploadDir   string
	Secret      []byte
}

var ErrMissingSecret = errors.New("SESSION_SECRET must be set")

func FromEnv() (Config, error) {
	cfg := Config{
		Port:        envOr("PORT", "8080"),
		DBPath:      envOr("DB_PATH", "chirp.db"),
		TemplateDir: envOr("TEMPLATE_DIR", "web/templates"),
		UploadDir:   envOr("UPLOAD_DIR", "data/uploads"),
	}
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return Config{}, ErrMissingSecret
	}
	cfg.Secret = []byte(secret)
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
