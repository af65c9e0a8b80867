package client

import "errors"

// Transport errors.
var (
	// ErrStatus is returned when the site answers with a server error.
	ErrStatus = errors.New("unexpected response status")

	// ErrNotText is returned when the response body is not text.
	ErrNotText = errors.New("response body is not text")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidBaseURL is returned when the base URL is not absolute http(s).
	ErrInvalidBaseURL = errors.New("invalid base URL")
)
