package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlatform()
	c.normalizeSchedule()
	c.normalizeGenerator()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.VideosDir) == "" {
		c.Paths.VideosDir = defaultVideosDir
	}
	if c.Paths.VideosDir, err = expandPath(c.Paths.VideosDir); err != nil {
		return fmt.Errorf("paths.videos_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ProfileDir) == "" {
		c.Paths.ProfileDir = defaultProfileDir
	}
	if c.Paths.ProfileDir, err = expandPath(c.Paths.ProfileDir); err != nil {
		return fmt.Errorf("paths.profile_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScreenshotDir) == "" {
		c.Paths.ScreenshotDir = defaultScreenshotDir
	}
	if c.Paths.ScreenshotDir, err = expandPath(c.Paths.ScreenshotDir); err != nil {
		return fmt.Errorf("paths.screenshot_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlatform() {
	c.Platform.UploadURL = strings.TrimSpace(c.Platform.UploadURL)
	if c.Platform.UploadURL == "" {
		c.Platform.UploadURL = defaultUploadURL
	}
	c.Platform.LoginURLMarker = strings.TrimSpace(c.Platform.LoginURLMarker)
	if c.Platform.LoginURLMarker == "" {
		c.Platform.LoginURLMarker = defaultLoginURLMarker
	}
	labels := make([]string, 0, len(c.Platform.PostButtonLabels))
	for _, label := range c.Platform.PostButtonLabels {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		labels = defaultPostButtonLabels()
	}
	c.Platform.PostButtonLabels = labels

	if c.Platform.NavigateSettleSeconds <= 0 {
		c.Platform.NavigateSettleSeconds = defaultNavigateSettleSeconds
	}
	if c.Platform.FileInputTimeout <= 0 {
		c.Platform.FileInputTimeout = defaultFileInputTimeout
	}
	if c.Platform.IngestWaitSeconds <= 0 {
		c.Platform.IngestWaitSeconds = defaultIngestWaitSeconds
	}
	if c.Platform.ConfirmWaitSeconds <= 0 {
		c.Platform.ConfirmWaitSeconds = defaultConfirmWaitSeconds
	}
	if c.Platform.LoginGraceSeconds <= 0 {
		c.Platform.LoginGraceSeconds = defaultLoginGraceSeconds
	}
}

func (c *Config) normalizeSchedule() {
	if c.Schedule.DailyTarget <= 0 {
		c.Schedule.DailyTarget = defaultDailyTarget
	}
	if len(c.Schedule.DispatchMinutes) == 0 {
		c.Schedule.DispatchMinutes = []int{0, 30}
	}
	if c.Schedule.ReplenishIntervalHours <= 0 {
		c.Schedule.ReplenishIntervalHours = defaultReplenishIntervalHours
	}
}

func (c *Config) normalizeGenerator() {
	c.Generator.Command = strings.TrimSpace(c.Generator.Command)
	if c.Generator.Command == "" {
		if value, ok := os.LookupEnv("SHORTCAST_GENERATOR"); ok {
			c.Generator.Command = strings.TrimSpace(value)
		}
	}
	if c.Generator.Command == "" {
		c.Generator.Command = defaultGeneratorCommand
	}
	if c.Generator.TimeoutSeconds <= 0 {
		c.Generator.TimeoutSeconds = defaultGeneratorTimeoutSeconds
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
