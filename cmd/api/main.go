package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookstore-catalog/pkg/logger"
)

func main() {
	// .env chỉ dùng cho local, production đọc system environment
	envErr := godotenv.Load()

	env := getEnv("APP_ENV", "development")
	logger.Init(env)
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	exitOnError(Serve())
}

// getEnv lấy environment variable với fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
