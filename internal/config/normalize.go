package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AssetsDir) == "" {
		c.Paths.AssetsDir = defaultAssetsDir
	}
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JobsDir) == "" {
		c.Paths.JobsDir = defaultJobsDir
	}
	if c.Paths.JobsDir, err = expandPath(c.Paths.JobsDir); err != nil {
		return fmt.Errorf("paths.jobs_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTS() {
	if c.TTS.MaxChars == 0 {
		c.TTS.MaxChars = defaultMaxChars
	}
	if strings.TrimSpace(c.TTS.QuoteOpen) == "" {
		c.TTS.QuoteOpen = defaultQuoteOpen
	}
	if strings.TrimSpace(c.TTS.QuoteClose) == "" {
		c.TTS.QuoteClose = defaultQuoteClose
	}
	cues := make([]string, 0, len(c.TTS.AttributionCues))
	for _, cue := range c.TTS.AttributionCues {
		if trimmed := strings.TrimSpace(cue); trimmed != "" {
			cues = append(cues, trimmed)
		}
	}
	if len(cues) == 0 {
		cues = append(cues, defaultAttributionCues...)
	}
	c.TTS.AttributionCues = cues
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
