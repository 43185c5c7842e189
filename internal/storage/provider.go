// Package storage provides the string-keyed stores months and settings are
// persisted in.
package storage

// Provider is a key-value store. Keys are slash-separated, e.g. "2018/1".
type Provider interface {
	// Get returns the value stored under key, or an error wrapping
	// apperr.ErrNotFound.
	Get(key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Missing keys yield apperr.ErrNotFound.
	Delete(key string) error
	// Keys returns all keys starting with prefix, sorted.
	Keys(prefix string) ([]string, error)
	// Close releases the underlying resources.
	Close() error
}

// Verify implementations satisfy Provider at compile time.
var (
	_ Provider = (*FS)(nil)
	_ Provider = (*SQLite)(nil)
)
