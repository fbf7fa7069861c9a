package ports

import "go.trai.ch/shadercache/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd to the nearest config file and parses it.
	// Returns domain.ErrConfigNotFound when no file exists.
	Load(cwd string) (*domain.Project, error)
}
