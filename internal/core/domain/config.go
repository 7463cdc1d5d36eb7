package domain

import "time"

// Config is the immutable configuration loaded once at process start.
type Config struct {
	Paths  PathTable
	Server ServerConfig
	Watch  WatchConfig
	Sass   SassConfig
}

// ServerConfig configures the development server.
type ServerConfig struct {
	Host string
	Port int
}

// WatchConfig configures the watch orchestrator.
type WatchConfig struct {
	Debounce time.Duration
}

// SassConfig configures the stylesheet compiler.
type SassConfig struct {
	// Binary is the dart-sass executable name or path.
	Binary string
	// LoadPaths are extra import directories, relative to the project root.
	LoadPaths []string
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig(root string) *Config {
	return &Config{
		Paths: DefaultPathTable(root, DefaultSourceDir, DefaultOutputDir),
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
		Sass: SassConfig{
			Binary: DefaultSassBinary,
		},
	}
}
