// Package storage is the key-value layer under the service-status archive.
package storage

// DB is a byte-keyed store. Get returns core.ErrNotFound for a missing key.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	// Range calls fn for every pair whose key starts with prefix, in key
	// order, until fn returns false. key and value are only valid during
	// the call.
	Range(prefix []byte, fn func(key, value []byte) bool) error
	Close() error
}
