package config

const (
	defaultAssetsDir  = "~/.local/share/storyglot/assets"
	defaultJobsDir    = "~/.local/share/storyglot/jobs"
	defaultLogDir     = "~/.local/share/storyglot/logs"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultMaxChars   = 220
	defaultQuoteOpen  = `"`
	defaultQuoteClose = `"`
)

// defaultAttributionCues lists the Ukrainian reported-speech verbs the quote
// extractor recognizes out of the box. Replace via [tts] attribution_cues to
// run against other source languages.
var defaultAttributionCues = []string{
	"сказав", "сказала", "каже", "мовив", "мовила",
	"промовив", "промовила", "відповів", "відповіла",
	"прошепотів", "прошепотіла", "вигукнув", "вигукнула",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AssetsDir: defaultAssetsDir,
			JobsDir:   defaultJobsDir,
			LogDir:    defaultLogDir,
		},
		TTS: TTS{
			MaxChars:        defaultMaxChars,
			EnforceKnown:    false,
			QuoteOpen:       defaultQuoteOpen,
			QuoteClose:      defaultQuoteClose,
			AttributionCues: append([]string{}, defaultAttributionCues...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
