package port

import "context"

// ToggleStore exposes single-column boolean reads and conditional writes for
// an aggregate. Field names use the API's camelCase spelling; implementations
// map them to storage columns and must reject unregistered fields.
type ToggleStore interface {
	// GetBoolField returns the current value of the named boolean field.
	GetBoolField(ctx context.Context, id, field string) (bool, error)
	// CompareAndSetBoolField writes next only when the stored value still
	// equals expected. It reports whether the write was applied, so callers
	// can retry after a concurrent flip.
	CompareAndSetBoolField(ctx context.Context, id, field string, expected, next bool) (bool, error)
}
