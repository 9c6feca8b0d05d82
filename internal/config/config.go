package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/moments/internal/constants"
)

// Config holds process-level settings resolved from the environment
type Config struct {
	DBPath   string
	Debug    bool
	Timezone string
}

// Load resolves the configuration from the environment, falling back to an
// optional .env file in the working directory. A variable that is exported but
// empty counts as unset.
func Load() Config {
	dotenv, err := godotenv.Read()
	if err != nil {
		dotenv = map[string]string{}
	}
	src := source(dotenv)

	return Config{
		DBPath:   src.get(constants.EnvConfigPath, constants.DefaultConfigPath),
		Debug:    src.getBool(constants.EnvDebug, false),
		Timezone: src.get(constants.EnvTimezone, ""),
	}
}

// source holds the values read from .env
type source map[string]string

func (s source) get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := s[key]; value != "" {
		return value
	}
	return defaultValue
}

// getBool parses key with strconv.ParseBool, falling back on unset or garbage
func (s source) getBool(key string, defaultValue bool) bool {
	value := s.get(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir is the directory holding the database, logs and backups
func ConfigDir(dbPath string) string {
	return filepath.Dir(dbPath)
}
