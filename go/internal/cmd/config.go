package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the league-level configuration file. Connection details stay
// in the environment; only league rules and tunables live here.
type Config struct {
	Waivers struct {
		CutoffHour   int `yaml:"cutoff_hour"`
		CutoffMinute int `yaml:"cutoff_minute"`
	} `yaml:"waivers"`
	Draft struct {
		SchedulerBatchSize int32 `yaml:"scheduler_batch_size"`
	} `yaml:"draft"`
	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`
	Content struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"content"`
}

func defaultConfig() *Config {
	var config Config
	config.Waivers.CutoffHour = 12
	config.Waivers.CutoffMinute = 0
	config.Draft.SchedulerBatchSize = 10
	return &config
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads the league config file. A missing file is not an
// error; the defaults cover local development.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}
