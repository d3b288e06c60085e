package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConverter()
	c.normalizeClassification()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = defaultDataDir
	}
	if c.DataDir, err = expandPath(c.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.OutputDir, err = expandPath(c.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.LogDir) == "" {
		c.LogDir = defaultLogDir
	}
	if c.LogDir, err = expandPath(c.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConverter() {
	if strings.TrimSpace(c.Converter.Binary) == "" {
		c.Converter.Binary = defaultConverterBinary
	}
	if c.Converter.TimeoutSeconds == 0 {
		c.Converter.TimeoutSeconds = defaultConverterTimeout
	}
}

func (c *Config) normalizeClassification() {
	if strings.TrimSpace(c.Classification.DefaultSession) == "" {
		c.Classification.DefaultSession = defaultSessionLabel
	}
	// Markers match against lower-cased protocol names, so fold the table
	// once here instead of on every classification.
	if len(c.Classification.Tasks) > 0 {
		folded := make(map[string]string, len(c.Classification.Tasks))
		for marker, label := range c.Classification.Tasks {
			marker = strings.ToLower(strings.TrimSpace(marker))
			if marker == "" {
				continue
			}
			folded[marker] = strings.TrimSpace(label)
		}
		c.Classification.Tasks = folded
	}
}

func (c *Config) normalizeOutput() {
	if strings.TrimSpace(c.Output.DatasetName) == "" {
		c.Output.DatasetName = defaultDatasetName
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
