package ports

import "go.trai.ch/plume/internal/core/domain"

// ConfigLoader loads the pipeline configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration at path. An empty path selects the
	// default file in the working directory.
	Load(path string) (*domain.Config, error)
}
