package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

type hexHandleGenerator struct {
	random io.Reader
}

// NewHandleGenerator creates a generator of 32 random bytes, hex encoded.
func NewHandleGenerator() HandleGenerator {
	return &hexHandleGenerator{random: rand.Reader}
}

// NewHandleGeneratorWithReader is NewHandleGenerator with an explicit entropy source.
func NewHandleGeneratorWithReader(r io.Reader) HandleGenerator {
	return &hexHandleGenerator{random: r}
}

func (g *hexHandleGenerator) Generate() (string, error) {
	buf := make([]byte, tokenizationDomain.HandleSize)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("failed to generate token handle: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Validate accepts exactly 64 lowercase hex characters.
func (g *hexHandleGenerator) Validate(handle string) error {
	if len(handle) != tokenizationDomain.HandleSize*2 {
		return tokenizationDomain.ErrInvalidHandle
	}
	for i := 0; i < len(handle); i++ {
		c := handle[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return tokenizationDomain.ErrInvalidHandle
		}
	}
	return nil
}
