package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `yaml:"app"`
	Plex     PlexConfig     `yaml:"plex"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
}

// AppConfig contains application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"`
	DryRun   bool   `yaml:"dry_run"`
}

// PlexConfig contains the media server address and credential
type PlexConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// DatabaseConfig contains the local user store settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig contains server mode settings
type ServerConfig struct {
	Port            int    `yaml:"port"`
	ScheduleEnabled bool   `yaml:"schedule_enabled"`
	Schedule        string `yaml:"schedule"`
}

// Load loads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Substitute environment variables
	configData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(configData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return &config, nil
}

// FindConfigFile searches for configuration file in common locations
func FindConfigFile() (string, error) {
	locations := []string{
		"./config.yaml",
		"./config.yml",
		"~/.config/plexsync/config.yaml",
		"~/.config/plexsync/config.yml",
	}

	for _, location := range locations {
		if strings.HasPrefix(location, "~/") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				continue
			}
			location = strings.Replace(location, "~", homeDir, 1)
		}

		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	return "", fmt.Errorf("no configuration file found in any of these locations: %v", locations)
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	if c.Database.Path == "" {
		c.Database.Path = "./plexsync.db"
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.Server.Schedule == "" {
		c.Server.Schedule = "0 */6 * * *" // Every 6 hours by default
	}
}
