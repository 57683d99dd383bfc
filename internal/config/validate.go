package config

import (
	"errors"
	"fmt"

	"aivideorename/internal/naming"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRename(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateOnline reports whether online captioning can run with this config.
func (c *Config) ValidateOnline() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required for online captioning (or set %s)", envLLMAPIKey)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set for online captioning")
	}
	return nil
}

func (c *Config) validateRename() error {
	if !naming.ValidCaption(c.Rename.SentinelCaption) {
		return fmt.Errorf("rename.sentinel_caption %q must start with an uppercase ASCII letter followed by ASCII letters or digits", c.Rename.SentinelCaption)
	}
	if len(c.Rename.Extensions) == 0 {
		return errors.New("rename.extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	if c.Date.TimeoutSeconds <= 0 {
		return errors.New("date.timeout_seconds must be positive")
	}
	if c.Caption.TimeoutSeconds <= 0 {
		return errors.New("caption.timeout_seconds must be positive")
	}
	if c.Caption.FrameOffsetSeconds < 0 {
		return errors.New("caption.frame_offset_seconds must be zero or positive")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
