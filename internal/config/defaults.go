package config

import (
	"dto-services/services"
)

// Default values.
const (
	DefaultNameMode  = "fold"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultDriver    = DriverMemory
	DefaultDSN       = "dto-services.db"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// DefaultKeyNames mirrors shape.DefaultKeyNames.
var DefaultKeyNames = []string{"ID", "{Entity}ID"}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	m := services.DefaultMessages()

	return &Config{
		Matching: MatchingConfig{Names: DefaultNameMode},
		Keys:     KeysConfig{Names: DefaultKeyNames},
		Messages: MessagesConfig{
			Created:  m.Created,
			Updated:  m.Updated,
			Deleted:  m.Deleted,
			Read:     m.Read,
			NotFound: m.NotFound,
		},
		Log:   LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Store: StoreConfig{Driver: DefaultDriver, DSN: DefaultDSN},
	}
}

func defaultsMap() map[string]any {
	d := Default()

	return map[string]any{
		"matching.names":     d.Matching.Names,
		"keys.names":         d.Keys.Names,
		"messages.created":   d.Messages.Created,
		"messages.updated":   d.Messages.Updated,
		"messages.deleted":   d.Messages.Deleted,
		"messages.read":      d.Messages.Read,
		"messages.not_found": d.Messages.NotFound,
		"log.level":          d.Log.Level,
		"log.format":         d.Log.Format,
		"store.driver":       d.Store.Driver,
		"store.dsn":          d.Store.DSN,
	}
}
