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
	c.normalizeMatcher()
	c.normalizeMetadata()
	c.normalizeLLM()
	if c.Planner.TimeoutSeconds <= 0 {
		c.Planner.TimeoutSeconds = defaultPlannerTimeout
	}
	if c.Watch.DebounceMillis <= 0 {
		c.Watch.DebounceMillis = defaultWatchDebounceMillis
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.PublishDir, err = expandPath(strings.TrimSpace(c.Paths.PublishDir)); err != nil {
		return fmt.Errorf("paths.publish_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatcher() {
	c.Matcher.Extension = normalizeExtension(c.Matcher.Extension, defaultExtension)
	c.Matcher.TextExtension = normalizeExtension(c.Matcher.TextExtension, defaultTextExtension)
	c.Matcher.PositiveMarker = strings.ToLower(strings.TrimSpace(c.Matcher.PositiveMarker))
	c.Matcher.NegativeMarker = strings.ToLower(strings.TrimSpace(c.Matcher.NegativeMarker))
}

func normalizeExtension(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	if !strings.HasPrefix(value, ".") {
		value = "." + value
	}
	return value
}

func (c *Config) normalizeMetadata() {
	c.Metadata.Version = strings.TrimSpace(c.Metadata.Version)
	c.Metadata.OrganizedBy = strings.TrimSpace(c.Metadata.OrganizedBy)
	if c.Metadata.OrganizedBy == "" {
		c.Metadata.OrganizedBy = defaultOrganizedBy
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	for _, name := range []string{"CLAWBOT_LLM_API_KEY", "OPENAI_API_KEY"} {
		if c.LLM.APIKey != "" {
			break
		}
		if value, ok := os.LookupEnv(name); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
