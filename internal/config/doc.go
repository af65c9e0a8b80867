// Package config provides configuration structures and utilities for fgscrap.
// It defines the crawl range, worker pool sizes, storage locations, and the
// optional YAML configuration file that supplies defaults for them.
package config
