// Package prefixed defines wrappers around a store so that several contracts
// can share the same underlying storage without risking key collisions. The
// keys are hashed from the prefix and the base key.
package prefixed

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/verivote/verivote/core/store"
)

type readable struct {
	store.Readable
	prefix []byte
}

type writable struct {
	store.Writable
	prefix []byte
}

type snapshot struct {
	*writable
	*readable
}

// NewSnapshot creates a new prefixed Snapshot.
func NewSnapshot(prefix string, snap store.Snapshot) store.Snapshot {
	p := []byte(prefix)
	return &snapshot{
		&writable{snap, p},
		&readable{snap, p},
	}
}

// NewReadable creates a new prefixed Readable.
func NewReadable(prefix string, r store.Readable) store.Readable {
	p := []byte(prefix)
	return &readable{r, p}
}

// Get implements store.Readable.
func (s *readable) Get(key []byte) ([]byte, error) {
	k := NewPrefixedKey(s.prefix, key)
	return s.Readable.Get(k)
}

// Set implements store.Writable.
func (s *writable) Set(key []byte, value []byte) error {
	k := NewPrefixedKey(s.prefix, key)
	return s.Writable.Set(k, value)
}

// Delete implements store.Writable.
func (s *writable) Delete(key []byte) error {
	k := NewPrefixedKey(s.prefix, key)
	return s.Writable.Delete(k)
}

// NewPrefixedKey creates a 256bit key from a prefix and a base key. The
// segments are length-prefixed before hashing so that different pairs can
// never produce the same input.
func NewPrefixedKey(prefix, key []byte) []byte {
	h := sha256.New()

	length := []byte{0, 0}
	binary.LittleEndian.PutUint16(length, uint16(len(prefix)))

	h.Write(length)
	h.Write(prefix)

	length = []byte{0, 0}
	binary.LittleEndian.PutUint16(length, uint16(len(key)))

	h.Write(length)
	h.Write(key)

	return h.Sum(nil)
}
