package config

import "aivideorename/internal/caption"

const (
	defaultConfigPath         = "~/.config/aivideorename/config.toml"
	projectConfigName         = "aivideorename.toml"
	defaultLogDir             = "~/.local/share/aivideorename/logs"
	defaultStateDir           = "~/.local/state/aivideorename"
	defaultFFprobeBinary      = "ffprobe"
	defaultFFmpegBinary       = "ffmpeg"
	defaultDateTimeoutSeconds = 30
	defaultCaptionTimeout     = 120
	defaultFrameOffsetSeconds = 1.0
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "google/gemini-2.5-flash"
	defaultLLMReferer         = "https://github.com/aivideorename/aivideorename"
	defaultLLMTitle           = "aivideorename"
	defaultLLMTimeoutSeconds  = 60
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	envLLMAPIKey              = "AIVIDEORENAME_LLM_API_KEY"
	envOpenRouterAPIKey       = "OPENROUTER_API_KEY"
)

var defaultExtensions = []string{
	".mp4", ".avi", ".mov", ".mkv", ".flv", ".wmv",
	".m4v", ".mpg", ".mpeg", ".3gp", ".webm",
}

// DefaultExtensions returns a copy of the built-in media extension allow-list.
func DefaultExtensions() []string {
	return append([]string(nil), defaultExtensions...)
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Rename: Rename{
			SentinelCaption: caption.DefaultSentinel,
			StopWords:       caption.DefaultStopWords(),
			Extensions:      DefaultExtensions(),
		},
		Date: Date{
			FFprobeBinary:  defaultFFprobeBinary,
			FallbackMtime:  true,
			TimeoutSeconds: defaultDateTimeoutSeconds,
		},
		Caption: Caption{
			FFmpegBinary:       defaultFFmpegBinary,
			FrameOffsetSeconds: defaultFrameOffsetSeconds,
			TimeoutSeconds:     defaultCaptionTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
