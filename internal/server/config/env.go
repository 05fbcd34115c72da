package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envFileVar names the variable holding an alternative .env path.
const envFileVar = "KRACKER_ENV_FILE"

// parseEnv loads a .env file (if present) into the process environment and
// then overlays every Config field whose variable is set. Variables already
// present in the environment win over the file.
func parseEnv(config *Config) {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
