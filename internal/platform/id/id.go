package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque identifiers for prediction sessions.
type Generator interface {
	New() string
}

// RandomHex yields Size random bytes hex encoded; Size defaults to 8.
type RandomHex struct {
	Size int
}

func (g RandomHex) New() string {
	size := g.Size
	if size <= 0 {
		size = 8
	}
	buf := make([]byte, size)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
