// Package config provides the configuration loader for plume.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvPort = "PLUME_PORT"
	EnvHost = "PLUME_HOST"
	EnvSass = "PLUME_SASS"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// WorkDir is where the default config file is looked up.
	// Empty means the process working directory.
	WorkDir string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration at configPath. An empty path selects
// plume.yaml in the working directory, which may be absent.
func (l *Loader) Load(configPath string) (*domain.Config, error) {
	explicit := configPath != ""
	if !explicit {
		dir, err := l.workDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(dir, domain.ConfigFileName)
	}

	configPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	var file Plumefile
	found, err := readAndUnmarshalYAML(configPath, &file)
	if err != nil {
		return nil, err
	}
	if !found && explicit {
		return nil, zerr.With(domain.ErrConfigReadFailed, "path", configPath)
	}

	if err := loadEnvFile(filepath.Join(filepath.Dir(configPath), domain.EnvFileName)); err != nil {
		return nil, err
	}

	cfg, err := l.buildConfig(resolveRoot(configPath, file.Root), &file)
	if err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) workDir() (string, error) {
	if l.WorkDir != "" {
		return l.WorkDir, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return dir, nil
}

func (l *Loader) buildConfig(root string, file *Plumefile) (*domain.Config, error) {
	cfg := domain.DefaultConfig(root)

	src, dest := domain.DefaultSourceDir, domain.DefaultOutputDir
	if file.Src != "" {
		src = file.Src
	}
	if file.Dest != "" {
		dest = file.Dest
	}
	cfg.Paths = domain.DefaultPathTable(root, src, dest)

	for name, dto := range file.Paths {
		kind, err := domain.ParseAssetKind(name)
		if err != nil {
			return nil, zerr.With(err, "section", "paths")
		}
		cfg.Paths.Specs[kind] = overlaySpec(cfg.Paths.Specs[kind], dto)
	}

	if file.Server.Host != "" {
		cfg.Server.Host = file.Server.Host
	}
	if file.Server.Port != 0 {
		cfg.Server.Port = file.Server.Port
	}

	if file.Watch.Debounce != "" {
		d, err := time.ParseDuration(file.Watch.Debounce)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "watch.debounce", file.Watch.Debounce)
		}
		cfg.Watch.Debounce = d
	}

	if file.Sass.Binary != "" {
		cfg.Sass.Binary = file.Sass.Binary
	}
	for _, p := range file.Sass.LoadPaths {
		cfg.Sass.LoadPaths = append(cfg.Sass.LoadPaths, path.Clean(filepath.ToSlash(p)))
	}

	if len(file.Paths) > 0 {
		l.Logger.Info("using custom asset paths from " + domain.ConfigFileName)
	}

	return cfg, nil
}

func overlaySpec(spec domain.PathSpec, dto PathSpecDTO) domain.PathSpec {
	clean := func(p string) string { return path.Clean(filepath.ToSlash(p)) }

	if dto.Base != "" {
		spec.Base = clean(dto.Base)
	}
	if dto.Source != "" {
		spec.Source = clean(dto.Source)
	}
	if dto.Watch != "" {
		spec.Watch = clean(dto.Watch)
	}
	if dto.Output != "" {
		spec.Output = clean(dto.Output)
	}
	return spec
}

func applyEnv(cfg *domain.Config) error {
	if host := os.Getenv(EnvHost); host != "" {
		cfg.Server.Host = host
	}
	if bin := os.Getenv(EnvSass); bin != "" {
		cfg.Sass.Binary = bin
	}
	if raw := os.Getenv(EnvPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return zerr.With(domain.ErrInvalidPort, EnvPort, raw)
		}
		cfg.Server.Port = port
	}
	return nil
}

func validate(cfg *domain.Config) error {
	info, err := os.Stat(cfg.Paths.Root)
	if err != nil || !info.IsDir() {
		return zerr.With(domain.ErrRootNotFound, "root", cfg.Paths.Root)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return zerr.With(domain.ErrInvalidPort, "port", cfg.Server.Port)
	}

	if err := cfg.Paths.Validate(); err != nil {
		return err
	}

	for _, kind := range domain.AllKinds {
		spec := cfg.Paths.Specs[kind]
		for _, pattern := range []string{spec.Source, spec.Watch} {
			if !doublestar.ValidatePattern(pattern) {
				return zerr.With(zerr.With(domain.ErrInvalidPattern, "kind", kind.String()), "pattern", pattern)
			}
		}
	}

	return nil
}

func loadEnvFile(envPath string) error {
	if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	// godotenv.Load never overrides variables already set in the environment.
	if err := godotenv.Load(envPath); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEnvFileLoadFailed.Error()), "path", envPath)
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reports false when the file does not exist.
func readAndUnmarshalYAML[T any](configPath string, target *T) (bool, error) {
	// #nosec G304 -- configPath comes from the command line
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return true, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	return true, nil
}
