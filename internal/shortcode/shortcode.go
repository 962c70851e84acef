// Package shortcode generates and validates short codes.
package shortcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Base62 characters: 0-9, a-z, A-Z (case sensitive)
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// DefaultLength is the starting length for generated codes
	DefaultLength = 6
	// MaxAttempts bounds the generate-and-insert retry loop. The code
	// grows one character per collision, so exhaustion is effectively a
	// backend problem, not a namespace one.
	MaxAttempts = 5

	customMinLength = 3
	customMaxLength = 10
)

// Validation errors for custom codes
var (
	ErrInvalidCode  = errors.New("custom code must be 3-10 alphanumeric characters")
	ErrReservedCode = errors.New("custom code is reserved")
)

// reserved codes collide with routing and operational endpoints
var reserved = map[string]struct{}{
	"api":     {},
	"admin":   {},
	"www":     {},
	"app":     {},
	"health":  {},
	"metrics": {},
	"docs":    {},
}

// Generator produces random short codes
type Generator interface {
	// Generate returns a random base62 code of the given length
	Generate(length int) (string, error)
}

// RandomGenerator generates codes from a cryptographic random source
type RandomGenerator struct{}

// NewRandomGenerator creates a random code generator
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// Generate returns a random base62 code of the given length
func (g *RandomGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	code := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generating short code: %w", err)
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}

// ValidateCustom checks a caller-chosen code against the length, charset,
// and reserved-word rules
func ValidateCustom(code string) error {
	if len(code) < customMinLength || len(code) > customMaxLength {
		return ErrInvalidCode
	}
	for _, c := range code {
		if !isAlphanumeric(c) {
			return ErrInvalidCode
		}
	}
	if _, ok := reserved[code]; ok {
		return ErrReservedCode
	}
	return nil
}

// Reserved reports whether a code collides with a reserved route
func Reserved(code string) bool {
	_, ok := reserved[code]
	return ok
}

func isAlphanumeric(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Ensure RandomGenerator implements the interface
var _ Generator = (*RandomGenerator)(nil)
