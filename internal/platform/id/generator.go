package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// codeAlphabet leaves out 0/O and 1/I so codes read cleanly off a phone.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Generator creates row IDs and short spectator join codes.
type Generator interface {
	NewID() (string, error)
	NewCode(length int) (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// NewCode returns an upper-case code drawn uniformly from codeAlphabet.
func (g *RandomGenerator) NewCode(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("code length must be >= 1, got %d", length)
	}

	limit := big.NewInt(int64(len(codeAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		out[i] = codeAlphabet[n.Int64()]
	}
	return string(out), nil
}
