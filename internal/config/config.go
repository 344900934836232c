// Package config loads application settings from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds the process-level settings for HandHop.
type Config struct {
	Port         string
	CameraID     int
	DBPath       string // empty means the default under ~/.handhop
	MotionThresh float64
}

// Load reads configuration from environment variables, falling back to
// defaults for anything unset.
func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		CameraID:     getEnvInt("CAMERA_ID", 0),
		DBPath:       os.Getenv("HANDHOP_DB"),
		MotionThresh: getEnvFloat("MOTION_THRESHOLD", 1.0),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
