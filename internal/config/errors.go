package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and describe what is wrong
// with the configuration.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() for programmatic handling while still printing a readable
// message.
var (
	// ErrInvalidPageRange is returned when the start page is zero or greater
	// than the end page.
	ErrInvalidPageRange = errors.New("invalid page range: start page must be at least 1 and not after end page")

	// ErrInvalidFetchWorkers is returned when the fetch pool size is not positive.
	ErrInvalidFetchWorkers = errors.New("invalid fetch workers: must be positive")

	// ErrInvalidDecryptWorkers is returned when the decrypt pool size is not positive.
	ErrInvalidDecryptWorkers = errors.New("invalid decrypt workers: must be positive")

	// ErrEmptySaveDir is returned when no output directory is configured.
	ErrEmptySaveDir = errors.New("invalid save directory: must not be empty")

	// ErrEmptyDBDir is returned when no database directory is configured.
	ErrEmptyDBDir = errors.New("invalid database directory: must not be empty")

	// ErrInvalidBaseURL is returned when the listing site URL is not an
	// absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
