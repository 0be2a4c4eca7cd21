package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Extractor kinds
const (
	ExtractorYtDlp  = "ytdlp"
	ExtractorNative = "native"
	ExtractorAuto   = "auto"
)

// Default values
const (
	DefaultDownloadDir     = "."
	DefaultPollTimeout     = 60
	DefaultShutdownTimeout = 30 * time.Second
)

// ErrMissingToken is returned when no bot credential is present in the environment.
var ErrMissingToken = errors.New("no BOT_TOKEN found, please set it as an environment variable")

// Config holds the bot configuration
type Config struct {
	TelegramToken    string
	DownloadDir      string
	Extractor        string
	YtDlpAutoInstall bool
	YtDlpPath        string
	BotDebug         bool
	PollTimeout      int
	ShutdownTimeout  time.Duration
	LogLevel         string
	LogFormat        string
	Proxy            *ProxyConfig
}

// Load reads configuration from the environment. envFile is loaded first when it
// exists; variables already set in the process environment take precedence.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	token := strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	if token == "" {
		token = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	pollTimeout, err := getEnvInt("POLL_TIMEOUT", DefaultPollTimeout)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramToken:    token,
		DownloadDir:      getEnv("DOWNLOAD_DIR", DefaultDownloadDir),
		Extractor:        strings.ToLower(getEnv("EXTRACTOR", ExtractorYtDlp)),
		YtDlpAutoInstall: getEnvBool("YTDLP_AUTO_INSTALL", false),
		YtDlpPath:        getEnv("YTDLP_PATH", ""),
		BotDebug:         getEnvBool("BOT_DEBUG", false),
		PollTimeout:      pollTimeout,
		ShutdownTimeout:  shutdownTimeout,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		Proxy:            LoadProxyConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}

	switch c.Extractor {
	case ExtractorYtDlp, ExtractorNative, ExtractorAuto:
	default:
		return fmt.Errorf("unknown extractor %q (must be %s, %s or %s)", c.Extractor, ExtractorYtDlp, ExtractorNative, ExtractorAuto)
	}

	if c.PollTimeout <= 0 {
		return fmt.Errorf("poll timeout must be greater than 0")
	}

	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
