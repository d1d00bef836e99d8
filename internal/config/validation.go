package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	var errors ValidationErrors

	// Validate App config
	if c.App.LogLevel != "" {
		validLevels := []string{"debug", "info", "warn", "error"}
		if !contains(validLevels, c.App.LogLevel) {
			errors = append(errors, ValidationError{
				Field:   "app.log_level",
				Message: fmt.Sprintf("must be one of: %v", validLevels),
			})
		}
	}

	// Validate Plex config
	if c.Plex.URL == "" {
		errors = append(errors, ValidationError{
			Field:   "plex.url",
			Message: "media server URL is required",
		})
	} else if !strings.HasPrefix(c.Plex.URL, "http://") && !strings.HasPrefix(c.Plex.URL, "https://") {
		errors = append(errors, ValidationError{
			Field:   "plex.url",
			Message: fmt.Sprintf("must be an http(s) URL: %s", c.Plex.URL),
		})
	}

	if c.Plex.Token == "" {
		errors = append(errors, ValidationError{
			Field:   "plex.token",
			Message: "API token is required",
		})
	}

	// Validate database config
	if c.Database.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "database.path",
			Message: "database path is required",
		})
	}

	// Validate server configuration
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Message: "port must be between 1 and 65535",
		})
	}

	// Validate cron schedule if scheduling is enabled
	if c.Server.ScheduleEnabled && c.Server.Schedule == "" {
		errors = append(errors, ValidationError{
			Field:   "server.schedule",
			Message: "schedule must be provided when schedule_enabled is true",
		})
	}

	if len(errors) > 0 {
		return errors
	}

	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
