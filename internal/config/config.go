package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr      string
	DBPath          string
	PhotoPath       string
	AnthropicAPIKey string
	RecipeModel     string
	VisionModel     string
	LogLevel        string
	LogFile         string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "/data/fridgekeep.db"),
		PhotoPath:       getEnv("PHOTO_LOCAL_PATH", "/data/photos"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		RecipeModel:     getEnv("RECIPE_MODEL", "claude-opus-4-6"),
		VisionModel:     getEnv("VISION_MODEL", "claude-opus-4-6"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
