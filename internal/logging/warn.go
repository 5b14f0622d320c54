package logging

import (
	"log/slog"
	"slices"
)

const (
	defaultErrorHint = "check logs for details"
	defaultImpact    = "operation completed with warnings"
)

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact. Fields the caller supplies win over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	required := []Attr{
		String(FieldEventType, eventType),
		String(FieldErrorHint, defaultErrorHint),
		String(FieldImpact, defaultImpact),
	}
	for _, field := range required {
		if !HasAttrKey(attrs, field.Key) {
			attrs = append(attrs, field)
		}
	}
	logger.Warn(msg, Args(attrs...)...)
}

// HasAttrKey reports whether any attribute in attrs uses key.
func HasAttrKey(attrs []Attr, key string) bool {
	return slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == key })
}
