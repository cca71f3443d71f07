package tracing

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
)

var allowedSpanKeys = map[attribute.Key]struct{}{
	"request_id":              {},
	"http.method":             {},
	"http.route":              {},
	"http.status_code":        {},
	"http.server_duration_ms": {},
	"db.operation":            {},
	"sobremesa.status":        {},
	"carta.decision":          {},
}

// SafeAttributes keeps only allowlisted span attributes so letter text and
// personal data never leave the process.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedSpanKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

// SafeError returns an error carrying only the outermost message.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(err.Error())
}
