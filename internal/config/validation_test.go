package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			LogLevel: "info",
		},
		Plex: PlexConfig{
			URL:   "http://plex.local:32400",
			Token: "test-token",
		},
		Database: DatabaseConfig{
			Path: "/tmp/test.db",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorFields []string // Expected field names in error
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name: "missing required fields",
			mutate: func(c *Config) {
				c.Plex.URL = ""
				c.Plex.Token = ""
				c.Database.Path = ""
			},
			expectError: true,
			errorFields: []string{
				"plex.url",
				"plex.token",
				"database.path",
			},
		},
		{
			name: "invalid log level",
			mutate: func(c *Config) {
				c.App.LogLevel = "invalid"
			},
			expectError: true,
			errorFields: []string{"app.log_level"},
		},
		{
			name: "non-http url",
			mutate: func(c *Config) {
				c.Plex.URL = "plex.local:32400"
			},
			expectError: true,
			errorFields: []string{"plex.url"},
		},
		{
			name: "port out of range",
			mutate: func(c *Config) {
				c.Server.Port = 70000
			},
			expectError: true,
			errorFields: []string{"server.port"},
		},
		{
			name: "schedule required when enabled",
			mutate: func(c *Config) {
				c.Server.ScheduleEnabled = true
				c.Server.Schedule = ""
			},
			expectError: true,
			errorFields: []string{"server.schedule"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := config.Validate()

			if !tt.expectError {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			for _, field := range tt.errorFields {
				if !strings.Contains(err.Error(), field) {
					t.Errorf("Expected error to mention field '%s', got: %v", field, err)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "plex.url", Message: "media server URL is required"}
	expected := "validation error for field 'plex.url': media server URL is required"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "plex.url", Message: "required"},
		{Field: "plex.token", Message: "required"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "plex.url") || !strings.Contains(msg, "plex.token") {
		t.Errorf("Expected both fields in message, got: %s", msg)
	}
	if !strings.Contains(msg, "; ") {
		t.Errorf("Expected errors joined with '; ', got: %s", msg)
	}
}
