package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateToken returns a random hex token of n bytes with the given prefix.
// Format: prefix_randomhex
func GenerateToken(prefix string, n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateLoginToken generates the token embedded in a magic link: ml_xxx
func GenerateLoginToken() (string, error) {
	return GenerateToken("ml", 24)
}

// GenerateLoginCode returns a zero-padded 6-digit numeric code.
func GenerateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
