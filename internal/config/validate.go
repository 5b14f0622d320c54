package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Metadata.Version) == "" {
		return errors.New("metadata.version must be set")
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateLLM reports whether the reasoning service can be called. It is kept
// out of Validate so organize-only runs work without credentials.
func (c *Config) ValidateLLM() error {
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("llm.api_key is required. Set OPENAI_API_KEY (or CLAWBOT_LLM_API_KEY) or edit %s (create with 'clawbot config init')", defaultPath)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.PublishDir == "" {
		return errors.New("paths.publish_dir must be set")
	}
	if filepath.Clean(c.Paths.LibraryDir) == filepath.Clean(c.Paths.PublishDir) {
		return errors.New("paths.publish_dir must differ from paths.library_dir")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.PositiveMarker == "" {
		return errors.New("matcher.positive_marker must be set")
	}
	if c.Matcher.NegativeMarker != "" && strings.Contains(c.Matcher.PositiveMarker, c.Matcher.NegativeMarker) {
		return fmt.Errorf("matcher.negative_marker %q would veto every positive match", c.Matcher.NegativeMarker)
	}
	if c.Matcher.Extension == c.Matcher.TextExtension {
		return errors.New("matcher.text_extension must differ from matcher.extension")
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
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
