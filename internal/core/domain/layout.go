package domain

import "time"

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "plume.yaml"

	// EnvFileName is the name of the optional environment file next to the config.
	EnvFileName = ".env"

	// DefaultSourceDir is the default source root.
	DefaultSourceDir = "src"

	// DefaultOutputDir is the default output root removed by clean.
	DefaultOutputDir = "dest"

	// DefaultHost is the default dev server interface.
	DefaultHost = "localhost"

	// DefaultPort is the default dev server port.
	DefaultPort = 3000

	// DefaultDebounce is the default window collapsing rapid change events.
	DefaultDebounce = 200 * time.Millisecond

	// DefaultSassBinary is the default stylesheet compiler executable.
	DefaultSassBinary = "sass"

	// MinSuffix is inserted before the extension of minified artifacts.
	MinSuffix = ".min"

	// DirPerm is the default permission for directories (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)
