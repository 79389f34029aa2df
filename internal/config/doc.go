// Package config provides configuration structures and utilities for
// CitrusCounter. It defines the main configuration options for the remote
// counting service endpoint, local storage locations, and report output
// preferences, plus a YAML config file loader for persistent defaults.
package config
