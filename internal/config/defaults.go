package config

const (
	defaultConfigPath          = "~/.config/clawbot/config.toml"
	defaultLibraryDir          = "~/.local/share/clawbot/library"
	defaultPublishDir          = "~/.local/share/clawbot/clawbot_view"
	defaultLogDir              = "~/.local/share/clawbot/logs"
	defaultStateDir            = "~/.local/share/clawbot/state"
	defaultExtension           = ".pdf"
	defaultTextExtension       = ".txt"
	defaultPositiveMarker      = "armv8"
	defaultNegativeMarker      = "armv9"
	defaultMetadataVersion     = "metadata-v9"
	defaultOrganizedBy         = "VirtualClawbot"
	defaultLLMBaseURL          = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel            = "gpt-4"
	defaultLLMReferer          = "https://github.com/clawbot/clawbot"
	defaultLLMTitle            = "Clawbot Library Planner"
	defaultLLMTimeoutSeconds   = 60
	defaultPlannerTimeout      = 120
	defaultWatchDebounceMillis = 750
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			PublishDir: defaultPublishDir,
			LogDir:     defaultLogDir,
			StateDir:   defaultStateDir,
		},
		Matcher: Matcher{
			Extension:      defaultExtension,
			TextExtension:  defaultTextExtension,
			PositiveMarker: defaultPositiveMarker,
			NegativeMarker: defaultNegativeMarker,
		},
		Metadata: Metadata{
			Version:     defaultMetadataVersion,
			OrganizedBy: defaultOrganizedBy,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Planner: Planner{
			TimeoutSeconds: defaultPlannerTimeout,
		},
		Watch: Watch{
			DebounceMillis: defaultWatchDebounceMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
