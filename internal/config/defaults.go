package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.config/recalldoc",
			SQLiteFile:        "recalldoc.db",
			SQLiteJournalMode: "wal",
		},
		Daemon: DaemonConfig{
			Host:           "127.0.0.1",
			Port:           8731,
			MaxRequestSize: 1 << 20,
			AllowedOrigins: DefaultAllowedOrigins(),
		},
		Logging: LoggingConfig{
			Level:    "info",
			AuditLog: true,
		},
		Search: SearchConfig{
			DefaultLimit: 20,
		},
	}
}

// DefaultAllowedOrigins lists the origins allowed to call the daemon: the
// browser extension schemes and the two wiki sites whose pages report
// visits.
func DefaultAllowedOrigins() []string {
	return []string{
		"chrome-extension://*",
		"moz-extension://*",
		"https://*.esa.io",
		"https://*.kibe.la",
	}
}
