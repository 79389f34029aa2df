package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to match the production CitrusCounter backend
// and typical rural network conditions where the tool is used.
const (
	// DefaultEndpoint is the production counting service base URL.
	// All API paths (/summary, /generate-report, /auth/...) are resolved
	// against this base.
	DefaultEndpoint = "https://citruscounter-production.up.railway.app"

	// DefaultTimeout is set to 90 seconds because a counting request
	// uploads four full-resolution photographs over connections that are
	// often mobile and slow in the field. A short timeout would abort
	// uploads that were going to succeed.
	DefaultTimeout = 90 * time.Second

	// DefaultMaxImageSize limits the size of a single image file accepted
	// into a submission. 10MB comfortably fits photos from current phone
	// cameras while catching accidentally selected videos or RAW files.
	DefaultMaxImageSize = 10 * 1024 * 1024 // 10MB

	// DefaultUserAgent identifies CitrusCounter in HTTP requests.
	// A descriptive User-Agent lets backend operators distinguish CLI
	// traffic from the mobile application in their logs.
	DefaultUserAgent = "CitrusCounter-CLI/1.0 (+https://github.com/citruscounter/citruscounter)"

	// AppName is the application name used for XDG directory paths.
	AppName = "citruscounter"
)

// Config holds all configuration options for CitrusCounter.
// This struct is designed to be populated from CLI flags and the optional
// config file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ServiceConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Endpoint is the base URL of the remote counting service.
	Endpoint string

	// Timeout is the bound applied to each HTTP request, including the
	// multipart image upload. Surfaced to the user as a network error on
	// expiry rather than hanging indefinitely.
	Timeout time.Duration

	// MaxImageSize is the maximum size in bytes of a single image file
	// accepted into a submission. Set to 0 to use the default limit.
	MaxImageSize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .citruscounter in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// File holds values loaded from the config file, if one was found.
	File *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DataDir is the directory holding the local sqlite store and rendered
	// report documents. Defaults to the XDG data directory
	// (~/.local/share/citruscounter on Linux).
	DataDir string

	// SkipEXIF disables capture-metadata inspection of the selected images.
	// Inspection is advisory (it warns about missing capture dates or
	// embedded GPS data) so it can be skipped for speed.
	SkipEXIF bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., endpoint, timeout).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Endpoint:     DefaultEndpoint,
		Timeout:      DefaultTimeout,
		MaxImageSize: DefaultMaxImageSize,
		UserAgent:    DefaultUserAgent,
		DataDir:      XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for CitrusCounter.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/citruscounter
// On macOS: ~/Library/Application Support/citruscounter
// On Windows: %LOCALAPPDATA%\citruscounter
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for CitrusCounter.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package sentinel errors.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrEmptyEndpoint
	}
	parsed, err := url.Parse(c.Endpoint)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return ErrInvalidEndpoint
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxImageSize < 0 {
		return ErrInvalidMaxImageSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
