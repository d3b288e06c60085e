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
	if err := c.validateConverter(); err != nil {
		return err
	}
	if err := c.validateClassification(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.DataDir == c.OutputDir {
		return errors.New("paths.output_dir must differ from paths.data_dir")
	}
	return nil
}

func (c *Config) validateConverter() error {
	if strings.TrimSpace(c.Converter.Binary) == "" {
		return errors.New("converter.binary must be set")
	}
	if c.Converter.TimeoutSeconds < 0 {
		return errors.New("converter.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateClassification() error {
	session := strings.TrimSpace(c.Classification.DefaultSession)
	if session == "" {
		return errors.New("classification.default_session must be set")
	}
	for _, r := range session {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("classification.default_session %q must be alphanumeric", session)
		}
	}
	for marker, label := range c.Classification.Tasks {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("classification.tasks[%q] must map to a non-empty task label", marker)
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
