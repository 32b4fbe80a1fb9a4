package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BackendURL      string `yaml:"backend_url"`
	SessionCode     string `yaml:"session_code"`
	DisplayName     string `yaml:"display_name"`
	ModuleID        string `yaml:"module_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads the YAML config (optional) and applies environment
// overrides on top.
func loadConfig(path string) (*Config, error) {
	config := Config{
		BackendURL:      "http://localhost:8000",
		CredentialsFile: ".crowdstage/credentials.json",
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.BackendURL = getEnv("CROWDSTAGE_BACKEND_URL", config.BackendURL)
	config.SessionCode = getEnv("CROWDSTAGE_SESSION_CODE", config.SessionCode)
	config.DisplayName = getEnv("CROWDSTAGE_DISPLAY_NAME", config.DisplayName)
	config.ModuleID = getEnv("CROWDSTAGE_MODULE_ID", config.ModuleID)
	config.CredentialsFile = getEnv("CROWDSTAGE_CREDENTIALS_FILE", config.CredentialsFile)

	if config.SessionCode == "" {
		return nil, errors.New("session_code (or CROWDSTAGE_SESSION_CODE) is required")
	}
	return &config, nil
}
