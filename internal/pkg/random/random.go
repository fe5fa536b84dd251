// Package random supplies the shuffle source for the round engine.
package random

import (
	"crypto/rand"
	"math/big"
)

// CryptoRandom draws from crypto/rand.
type CryptoRandom struct{}

// New returns a CryptoRandom.
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a uniform int in [0, n). It panics if crypto/rand fails.
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("random: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}
