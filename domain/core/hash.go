package core

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Hash represents a cryptographic hash
type Hash string

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough for log lines.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Fingerprinter accumulates cells into a dataset fingerprint. Cells are
// length-prefixed so that ("ab","c") and ("a","bc") hash differently.
type Fingerprinter struct {
	h hash.Hash
}

// NewFingerprinter creates an empty fingerprint accumulator
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{h: sha256.New()}
}

// Add writes one cell
func (f *Fingerprinter) Add(cell string) {
	var prefix [4]byte
	n := len(cell)
	prefix[0] = byte(n >> 24)
	prefix[1] = byte(n >> 16)
	prefix[2] = byte(n >> 8)
	prefix[3] = byte(n)
	f.h.Write(prefix[:])
	f.h.Write([]byte(cell))
}

// Sum returns the accumulated hash
func (f *Fingerprinter) Sum() Hash {
	return Hash(hex.EncodeToString(f.h.Sum(nil)))
}
