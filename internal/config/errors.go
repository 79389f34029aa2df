package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrEmptyEndpoint is returned when the service endpoint is empty.
	ErrEmptyEndpoint = errors.New("empty service endpoint: set it via the --endpoint flag or the config file")

	// ErrInvalidEndpoint is returned when the service endpoint is not an
	// absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid service endpoint: must be an absolute http(s) URL")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxImageSize is returned when the max image size is negative.
	// A negative size is invalid; use 0 to apply the default limit.
	ErrInvalidMaxImageSize = errors.New("invalid max image size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
