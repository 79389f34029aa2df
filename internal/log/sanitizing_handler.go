package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/citruscounter/citruscounter/internal/model"
)

// redactedKeys contains attribute keys whose values are always fully
// redacted. These carry credentials that must never appear in logs, even
// partially.
var redactedKeys = map[string]bool{
	"password":         true,
	"passwd":           true,
	"confirm_password": true,
	"new_password":     true,
	"otp":              true,
	"otp_code":         true,
	"token":            true,
	"access_token":     true,
	"refresh_token":    true,
	"authorization":    true,
	"cookie":           true,
	"set-cookie":       true,
	"secret":           true,
	"api_key":          true,
	"apikey":           true,
}

// phoneKeys contains attribute keys whose values are phone numbers. These
// are masked rather than redacted so log lines stay correlatable.
var phoneKeys = map[string]bool{
	"phone":        true,
	"phonenumber":  true,
	"phone_number": true,
}

// phonePattern matches values that look like a phone number in either
// accepted input format. Values matching this pattern are masked no matter
// what the attribute key is called.
var phonePattern = regexp.MustCompile(`^(03\d{9}|\+923\d{9})$`)

// MaskValue is the string used to replace fully redacted values.
const MaskValue = "***REDACTED***"

// SanitizingHandler wraps an slog.Handler and sanitizes farmer contact
// details and credentials before records reach the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components only ever see a plain *slog.Logger
type SanitizingHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler
}

// NewSanitizingHandler creates a SanitizingHandler wrapping the given
// handler. If handler is nil, slog.Default().Handler() is used.
func NewSanitizingHandler(handler slog.Handler) *SanitizingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SanitizingHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SanitizingHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if redactedKeys[keyLower] || containsCredentialKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if phoneKeys[keyLower] {
		return slog.String(a.Key, model.MaskPhone(a.Value.String()))
	}

	// A phone number can leak through an unrelated key (e.g. embedded in a
	// URL query or a free-form message field). Mask values that look like
	// one regardless of the key.
	if a.Value.Kind() == slog.KindString {
		if val := a.Value.String(); phonePattern.MatchString(val) {
			return slog.String(a.Key, model.MaskPhone(val))
		}
	}

	return a
}

// containsCredentialKeyword checks if the key contains credential keywords.
// Note: We intentionally exclude the bare "key" keyword as it causes false
// positives (e.g., "primary_key", "keyboard"). Specific key-related names
// are covered by the redactedKeys map.
func containsCredentialKeyword(key string) bool {
	keywords := []string{"password", "passwd", "secret", "token", "credential", "otp"}
	for _, keyword := range keywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// NewSanitizingLogger creates a *slog.Logger whose output has credentials
// redacted and phone numbers masked.
//
// Parameters:
//   - w: the io.Writer to write log output to (typically os.Stderr)
//   - verbose: if true, sets log level to Debug; otherwise Warn
func NewSanitizingLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewSanitizingHandler(textHandler))
}
