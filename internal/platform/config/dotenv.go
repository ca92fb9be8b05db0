package config

import (
	"errors"
	"fmt"
	"io/fs"

	"birdspot/internal/platform/config/raw"

	"github.com/joho/godotenv"
)

// LoadDotenv loads DOTENV_PATH (default ".env") into the process environment and returns
// the path it read, or "" when the file does not exist
// Variables already set win over the file. It does not log: callers run it before logger.Init
// so LOG_* values from the file take effect.
func LoadDotenv() (string, error) {
	path := raw.New().Get("DOTENV_PATH", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return path, nil
}
