package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePlatform(); err != nil {
		return err
	}
	if err := c.validateSchedule(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validatePlatform() error {
	if !strings.HasPrefix(c.Platform.UploadURL, "http://") && !strings.HasPrefix(c.Platform.UploadURL, "https://") {
		return fmt.Errorf("platform.upload_url must be an absolute URL, got %q", c.Platform.UploadURL)
	}
	if len(c.Platform.PostButtonLabels) == 0 {
		return errors.New("platform.post_button_labels must list at least one label")
	}
	return nil
}

func (c *Config) validateSchedule() error {
	if c.Schedule.StartHour < 0 || c.Schedule.StartHour > 23 {
		return fmt.Errorf("schedule.start_hour must be between 0 and 23, got %d", c.Schedule.StartHour)
	}
	for _, minute := range c.Schedule.DispatchMinutes {
		if minute < 0 || minute > 59 {
			return fmt.Errorf("schedule.dispatch_minutes entries must be between 0 and 59, got %d", minute)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
