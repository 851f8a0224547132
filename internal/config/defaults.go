package config

const (
	defaultDataDir               = "~/.local/share/verid"
	defaultLogDir                = "~/.local/share/verid/logs"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultMatchThreshold        = 0.6
	defaultMinAreaFraction       = 0.05
	defaultAdaptiveBlockSize     = 11
	defaultAdaptiveBias          = 2
	defaultApproxEpsilonFraction = 0.02
	defaultMaxFrameSide          = 1280
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			Threshold: defaultMatchThreshold,
		},
		Document: Document{
			MinAreaFraction:       defaultMinAreaFraction,
			AdaptiveBlockSize:     defaultAdaptiveBlockSize,
			AdaptiveBias:          defaultAdaptiveBias,
			ApproxEpsilonFraction: defaultApproxEpsilonFraction,
			MaxFrameSide:          defaultMaxFrameSide,
		},
		OCR: OCR{
			Languages: []string{"eng"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
