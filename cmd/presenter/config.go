package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BackendURL string `yaml:"backend_url"`
	SessionID  string `yaml:"session_id"`
	UserToken  string `yaml:"user_token"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	config := Config{
		BackendURL: "http://localhost:8000",
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
	config.SessionID = getEnv("CROWDSTAGE_SESSION_ID", config.SessionID)
	config.UserToken = getEnv("CROWDSTAGE_USER_TOKEN", config.UserToken)

	if config.SessionID == "" {
		return nil, errors.New("session_id (or CROWDSTAGE_SESSION_ID) is required")
	}
	if config.UserToken == "" {
		return nil, errors.New("user_token (or CROWDSTAGE_USER_TOKEN) is required")
	}
	return &config, nil
}
