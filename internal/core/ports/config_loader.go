package ports

import "go.trai.ch/press/internal/core/domain"

// ConfigLoader defines the interface for loading the site configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration starting at cwd and returns the site record.
	// Defaults are returned, rooted at cwd, when no configuration file exists.
	Load(cwd string) (*domain.Site, error)

	// LoadFile reads the configuration at path.
	LoadFile(path string) (*domain.Site, error)
}
