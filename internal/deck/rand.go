// internal/deck/rand.go
package deck

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// cryptoSource adapts crypto/rand to math/rand's Source64 so shuffles can use
// cryptographically strong randomness while keeping the injectable *rand.Rand
// shape that tests replace with a seeded source.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms; if it does, the
		// process has bigger problems than a card shuffle.
		panic(err)
	}
	return binary.LittleEndian.Uint64(b[:])
}

func (s cryptoSource) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func (cryptoSource) Seed(int64) {}

// NewCryptoRand returns a *rand.Rand backed by crypto/rand.
func NewCryptoRand() *rand.Rand {
	return rand.New(cryptoSource{})
}
