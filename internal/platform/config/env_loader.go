package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnvFiles loads .env.local and .env from the working directory or its
// parents, once per process. Variables already set in the environment win.
// CONFIG_SKIP_ENV_LOAD=1 disables it.
func LoadEnvFiles() {
	if os.Getenv("CONFIG_SKIP_ENV_LOAD") == "1" {
		return
	}
	envOnce.Do(func() {
		for _, name := range []string{".env.local", ".env"} {
			if path, ok := findEnvFile(name); ok {
				_ = godotenv.Load(path)
			}
		}
	})
}

func findEnvFile(name string) (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
