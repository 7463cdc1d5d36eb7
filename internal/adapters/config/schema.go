package config

// Plumefile represents the structure of the plume.yaml configuration file.
// Every field is optional and overlays the defaults.
type Plumefile struct {
	// Root is the project root, relative to the config file directory.
	Root   string                 `yaml:"root"`
	Src    string                 `yaml:"src"`
	Dest   string                 `yaml:"dest"`
	Paths  map[string]PathSpecDTO `yaml:"paths"`
	Server ServerDTO              `yaml:"server"`
	Watch  WatchDTO               `yaml:"watch"`
	Sass   SassDTO                `yaml:"sass"`
}

// PathSpecDTO overrides parts of one asset kind's path spec.
type PathSpecDTO struct {
	Base   string `yaml:"base"`
	Source string `yaml:"source"`
	Watch  string `yaml:"watch"`
	Output string `yaml:"output"`
}

// ServerDTO configures the dev server.
type ServerDTO struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WatchDTO configures the watch orchestrator.
type WatchDTO struct {
	// Debounce is a Go duration string such as "250ms".
	Debounce string `yaml:"debounce"`
}

// SassDTO configures the stylesheet compiler.
type SassDTO struct {
	Binary    string   `yaml:"binary"`
	LoadPaths []string `yaml:"loadPaths"`
}
