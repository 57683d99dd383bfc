package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRename()
	c.normalizeDate()
	c.normalizeCaption()
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return err
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		if c.Logging.File, err = expandPath(file); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) normalizeRename() {
	c.Rename.SentinelCaption = strings.TrimSpace(c.Rename.SentinelCaption)

	words := make([]string, 0, len(c.Rename.StopWords))
	seen := make(map[string]struct{}, len(c.Rename.StopWords))
	for _, word := range c.Rename.StopWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	c.Rename.StopWords = words

	exts := make([]string, 0, len(c.Rename.Extensions))
	seen = make(map[string]struct{}, len(c.Rename.Extensions))
	for _, ext := range c.Rename.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	c.Rename.Extensions = exts

	if c.Rename.MaxCaptionWords < 0 {
		c.Rename.MaxCaptionWords = 0
	}
}

func (c *Config) normalizeDate() {
	c.Date.FFprobeBinary = strings.TrimSpace(c.Date.FFprobeBinary)
	if c.Date.FFprobeBinary == "" {
		c.Date.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeCaption() {
	c.Caption.FFmpegBinary = strings.TrimSpace(c.Caption.FFmpegBinary)
	if c.Caption.FFmpegBinary == "" {
		c.Caption.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		for _, key := range []string{envLLMAPIKey, envOpenRouterAPIKey} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.LLM.APIKey = strings.TrimSpace(value)
				break
			}
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
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
