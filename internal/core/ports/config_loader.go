package ports

import "go.trai.ch/forge/internal/core/domain"

// ConfigLoader loads the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers and parses the configuration starting at cwd.
	// When explicit is non-empty it names the config file to read instead.
	Load(cwd, explicit string) (*domain.Project, error)

	// Scaffold writes the default configuration file into dir and returns its path.
	// An existing file is only replaced when force is set.
	Scaffold(dir string, force bool) (string, error)
}
