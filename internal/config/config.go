package config

import (
	"os"
	"path/filepath"

	"github.com/nikcich/ExpenseTrackerV2/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file in the working directory or
// its parent, if one exists. Variables already set in the environment are
// not overridden. It returns the file loaded, or "".
func LoadEnv(logger logging.Logger) string {
	if logger == nil {
		logger = logging.GetLogger()
	}

	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file",
				logging.Field{Key: logging.FieldFile, Value: envFile})
			return ""
		}
		logger.Debug("Loaded environment variables",
			logging.Field{Key: logging.FieldFile, Value: envFile})
		return envFile
	}
	return ""
}
