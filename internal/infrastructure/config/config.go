package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Quiz tree
	QuizDirectory  string // root served by the listing API and content fetch
	ImageDirectory string // files referenced by [IMG:name] tags

	// Validation cache
	DBDriver string // "sqlite" or "postgres"
	DBDSN    string

	// Quiz rules
	MinConsecutiveLines  int
	MaxConsecutiveLines  int
	DefaultQuestionCount int
	DefaultLiveMode      bool
	ValidationWorkers    int

	// Player registry
	PlayerIdleTTL       time.Duration
	PlayerSweepInterval time.Duration

	CORSOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:        mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:      mustGetDuration("SHUTDOWN_TIMEOUT"),
		QuizDirectory:        getenvDefault("QUIZ_DIRECTORY", "list quizzes"),
		ImageDirectory:       getenvDefault("IMAGE_DIRECTORY", "images"),
		DBDriver:             getenvDefault("DB_DRIVER", "sqlite"),
		DBDSN:                os.Getenv("DB_DSN"),
		MinConsecutiveLines:  envInt("MIN_CONSECUTIVE_LINES", 3),
		MaxConsecutiveLines:  envInt("MAX_CONSECUTIVE_LINES", 5),
		DefaultQuestionCount: envInt("DEFAULT_QUESTION_COUNT", 20),
		DefaultLiveMode:      envBool("DEFAULT_LIVE_MODE", false),
		ValidationWorkers:    envInt("VALIDATION_WORKERS", 8),
		PlayerIdleTTL:        envDuration("PLAYER_IDLE_TTL", 2*time.Hour),
		PlayerSweepInterval:  envDuration("PLAYER_SWEEP_INTERVAL", 5*time.Minute),
		CORSOrigins:          csvOr("CORS_ORIGINS", "*"),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func envInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func envDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func envBool(k string, fallback bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

func csvOr(k, fallback string) []string {
	parts := strings.Split(getenvDefault(k, fallback), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
