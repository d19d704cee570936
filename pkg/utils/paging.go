package utils

const (
	DefaultPageSize = 1000
	MaxPageSize     = 10000
)

// PageSize clamps a configured page size to a safe range.
func PageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
