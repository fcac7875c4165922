package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// sections lists the top-level config keys used to map environment
// variables like SERVER_READ_TIMEOUT onto nested viper keys.
var sections = []string{"logging", "server", "stream", "telemetry"}

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load populates cfg from config.yml, an optional .env file, and
// environment variables (highest precedence), then applies defaults.
func Load(serviceName string, cfg *Config, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.ConfigFile == "" {
		lc.ConfigFile = findConfigFile(serviceName)
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findEnvFile()
	}

	v := viper.New()

	// 1. YAML config file is the base layer.
	if lc.ConfigFile != "" && exists(lc.ConfigFile) {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", lc.ConfigFile, err)
		}
	}

	// 2. A .env file feeds the process environment without overriding it.
	if lc.EnvFile != "" && exists(lc.EnvFile) {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", lc.EnvFile, err)
		}
	}

	// 3. Environment variables win over the file.
	bindEnvVars(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling config for %s: %w", serviceName, err)
	}

	cfg.ApplyDefaults()
	return nil
}

// findConfigFile searches for config.yml in standard locations.
func findConfigFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		"./config.yml",
		"../config.yml",
	}
	for _, path := range searchPaths {
		if exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for a .env file next to the working directory.
func findEnvFile() string {
	for _, path := range []string{"./.env", "../.env"} {
		if exists(path) {
			return path
		}
	}
	return ""
}

// bindEnvVars maps environment variables onto viper keys. NAME and
// ENVIRONMENT map directly; SECTION_SOME_KEY maps to section.some_key
// for the known sections.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || pair[1] == "" {
			continue
		}
		key := strings.ToLower(pair[0])

		switch key {
		case "name", "environment":
			v.Set(key, pair[1])
			continue
		}

		for _, section := range sections {
			prefix := section + "_"
			if strings.HasPrefix(key, prefix) {
				v.Set(section+"."+strings.TrimPrefix(key, prefix), pair[1])
				break
			}
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
