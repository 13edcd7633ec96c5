package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTTS() error {
	if c.TTS.MaxChars <= 0 {
		return errors.New("tts.max_chars must be a positive integer")
	}
	if c.TTS.QuoteOpen == "" || c.TTS.QuoteClose == "" {
		return errors.New("tts.quote_open and tts.quote_close must be set")
	}
	if len(c.TTS.AttributionCues) == 0 {
		return errors.New("tts.attribution_cues must list at least one cue phrase")
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
