package config

// Constants for application-wide use
const (
	// Pagination
	DefaultPage    = 1
	DefaultPerPage = 10

	// Name limits for seeded groups and activities
	MaxNameLen = 100
)
