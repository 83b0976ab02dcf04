// Package config содержит логику чтения конфигурации клиента entradas.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config содержит параметры конфигурации клиента entradas.
type Config struct {
	APIBaseURL     string `env:"API_BASE_URL"`
	MediaBaseURL   string `env:"MEDIA_BASE_URL"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT"`
	SessionPath    string `env:"SESSION_PATH"`
	DownloadDir    string `env:"DOWNLOAD_DIR"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// .env подхватывается при наличии, его отсутствие не считается ошибкой
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIBaseURL := cfg.APIBaseURL
	envMediaBaseURL := cfg.MediaBaseURL
	envRequestTimeout := cfg.RequestTimeout
	envSessionPath := cfg.SessionPath
	envDownloadDir := cfg.DownloadDir

	flag.StringVar(&cfg.APIBaseURL, "a", "http://localhost:8080", "base URL of the ticketing backend")
	flag.StringVar(&cfg.MediaBaseURL, "m", "", "base URL for /uploads media (defaults to the API base URL)")
	flag.IntVar(&cfg.RequestTimeout, "t", 5, "HTTP request timeout in seconds")
	flag.StringVar(&cfg.SessionPath, "s", "entradas.db", "path to the local session database")
	flag.StringVar(&cfg.DownloadDir, "o", ".", "directory for downloaded ticket PDFs")

	flag.Parse()

	if envAPIBaseURL != "" {
		cfg.APIBaseURL = envAPIBaseURL
	}
	if envMediaBaseURL != "" {
		cfg.MediaBaseURL = envMediaBaseURL
	}
	if envRequestTimeout != 0 {
		cfg.RequestTimeout = envRequestTimeout
	}
	if envSessionPath != "" {
		cfg.SessionPath = envSessionPath
	}
	if envDownloadDir != "" {
		cfg.DownloadDir = envDownloadDir
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8080"
	}
	if cfg.MediaBaseURL == "" {
		cfg.MediaBaseURL = cfg.APIBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5
	}

	return cfg, nil
}
