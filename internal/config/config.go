package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by CURRENCY_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("CURRENCY_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL is optional. Without it stored sources and estimate
// persistence are disabled.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// APIKey is the bearer token required on /v1 routes. Empty disables auth.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// NetworksDir is the directory of network definition files. Empty disables
// the registry.
func NetworksDir() string {
	return os.Getenv("NETWORKS_DIR")
}

// MaxTimeSteps caps the time axis of a single estimation.
// Defaults to 10000 if not set.
func MaxTimeSteps() int64 {
	n, err := strconv.ParseInt(os.Getenv("MAX_TIME_STEPS"), 10, 64)
	if err != nil || n <= 0 {
		return 10_000
	}
	return n
}

// MaxNodeSteps caps time steps multiplied by network size for a single
// estimation. Defaults to 1000000 if not set.
func MaxNodeSteps() int64 {
	n, err := strconv.ParseInt(os.Getenv("MAX_NODE_STEPS"), 10, 64)
	if err != nil || n <= 0 {
		return 1_000_000
	}
	return n
}

// EstimateRetention is how long stored runs are kept.
// Defaults to 30 days if not set.
func EstimateRetention() time.Duration {
	d, err := time.ParseDuration(os.Getenv("ESTIMATE_RETENTION"))
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
