package config

const (
	// defaultOutputDir stays relative to the working directory so a bare
	// `episodic serve` drops files next to where it was launched.
	defaultOutputDir      = "episodes"
	defaultLogDir         = "~/.local/share/episodic/logs"
	defaultAPIBind        = "127.0.0.1:8100"
	defaultFilenamePrefix = "episode"
	defaultMaxBodyBytes   = 10 << 20
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Ingest: Ingest{
			FilenamePrefix: defaultFilenamePrefix,
			MaxBodyBytes:   defaultMaxBodyBytes,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
