// Package utils holds small generic helpers used to build optional configuration values.
package utils

// Ptr returns a pointer to a copy of the value.
func Ptr[T any](v T) *T {
	return &v
}

// Coalesce returns the first non-nil pointer, nil if all are nil.
func Coalesce[T any](candidates ...*T) *T {
	for _, candidate := range candidates {
		if candidate != nil {
			return candidate
		}
	}
	return nil
}

