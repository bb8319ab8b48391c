// Package truthfinder holds application-wide constants shared by the
// config loader and the composition root.
package truthfinder

const (
	// DefaultAppName is used for config lookup paths and log fields.
	DefaultAppName = "truthfinder"

	// DefaultConfigPath is searched after the working directory.
	DefaultConfigPath = "/etc/truthfinder"

	// DefaultDatabasePath is the embedded libsql file used when no DSN
	// is configured.
	DefaultDatabasePath = "data/truthfinder.db"

	// DefaultListenAddr is the HTTP bind address.
	DefaultListenAddr = ":8000"
)
