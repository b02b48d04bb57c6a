// Package cache provides a small in-process LRU used for reference data
// that changes rarely, such as the category taxonomy. Entries expire
// lazily on read; writers invalidate explicitly.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}
