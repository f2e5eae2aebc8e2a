// Package config loads the dto-services configuration.
//
// Values are layered, lowest priority first: built-in defaults, the YAML
// config file, DTOSVC_* environment variables, then command line flags.
package config

import (
	"dto-services/services"
)

// Config holds all configuration options.
type Config struct {
	Matching MatchingConfig `koanf:"matching"`
	Keys     KeysConfig     `koanf:"keys"`
	Messages MessagesConfig `koanf:"messages"`
	Log      LogConfig      `koanf:"log"`
	Store    StoreConfig    `koanf:"store"`
}

// MatchingConfig controls how names are paired.
type MatchingConfig struct {
	// Names is "fold" (case-insensitive) or "normalized" (also ignores
	// underscores and dashes).
	Names string `koanf:"names"`
}

// KeysConfig lists the property names recognised as keys when none is
// tagged. "{Entity}" stands for the entity type name.
type KeysConfig struct {
	Names []string `koanf:"names"`
}

// MessagesConfig overrides status texts. "{name}" is replaced by the entity
// display name.
type MessagesConfig struct {
	Created  string `koanf:"created"`
	Updated  string `koanf:"updated"`
	Deleted  string `koanf:"deleted"`
	Read     string `koanf:"read"`
	NotFound string `koanf:"not_found"`
}

// Services converts the texts for services.WithMessages.
func (m MessagesConfig) Services() services.Messages {
	return services.Messages{
		Created:  m.Created,
		Updated:  m.Updated,
		Deleted:  m.Deleted,
		Read:     m.Read,
		NotFound: m.NotFound,
	}
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StoreConfig selects the persistence store.
type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `koanf:"driver"`
	// DSN is the sqlite data source name.
	DSN string `koanf:"dsn"`
}
