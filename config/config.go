package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	defaultCountQueueSize  = 200
	defaultNumCountWorkers = 2
)

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // root for original media objects

	// usage-count refresh worker settings
	CountQueueSize  int
	NumCountWorkers int

	// CORS
	AllowedOrigins []string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "album.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	queueSize := getEnvIntOrDefault("COUNT_QUEUE_SIZE", defaultCountQueueSize)
	numWorkers := getEnvIntOrDefault("NUM_COUNT_WORKERS", defaultNumCountWorkers)

	allowedOrigin := getEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:3000")

	cfg := Config{
		DatabasePath:     dbPath,
		MediaStoragePath: absMediaStorage,
		CountQueueSize:   queueSize,
		NumCountWorkers:  numWorkers,
		AllowedOrigins:   []string{allowedOrigin},
	}

	return cfg, nil
}
