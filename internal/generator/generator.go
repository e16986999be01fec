// Package generator builds random passwords by sampling uniformly, with
// replacement, from a fixed alphabet.
package generator

import (
	"errors"
	"strings"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+"

	baseChars = lowercaseChars + uppercaseChars + numberChars

	// DefaultLength is used by callers that receive no length at all.
	DefaultLength = 16
)

var ErrInvalidLength = errors.New("password length must be a non-negative integer")

// Options configures a single generation call.
type Options struct {
	Length         int
	IncludeSymbols bool
}

// DefaultOptions returns 16 characters with symbols included.
func DefaultOptions() Options {
	return Options{
		Length:         DefaultLength,
		IncludeSymbols: true,
	}
}

// Alphabet returns the characters eligible for sampling: the 62 letters and
// digits, followed by the 12 symbols when includeSymbols is set.
func Alphabet(includeSymbols bool) string {
	if includeSymbols {
		return baseChars + symbolChars
	}
	return baseChars
}

// IsSymbol reports whether c belongs to the symbol set.
func IsSymbol(c rune) bool {
	return strings.ContainsRune(symbolChars, c)
}

// Generator produces passwords from an injected index source.
type Generator struct {
	src Source
}

// New returns a Generator drawing indexes from src. A nil src falls back to
// the process-wide math/rand/v2 generator.
func New(src Source) *Generator {
	if src == nil {
		src = GlobalSource()
	}
	return &Generator{src: src}
}

// Generate returns a string of exactly opts.Length characters. Negative
// lengths are rejected with ErrInvalidLength; a zero length yields "".
func (g *Generator) Generate(opts Options) (string, error) {
	if opts.Length < 0 {
		return "", ErrInvalidLength
	}

	alphabet := Alphabet(opts.IncludeSymbols)

	var sb strings.Builder
	sb.Grow(opts.Length)
	for i := 0; i < opts.Length; i++ {
		sb.WriteByte(alphabet[g.src.IntN(len(alphabet))])
	}

	return sb.String(), nil
}

var defaultGenerator = New(nil)

// Generate is shorthand for a Generator backed by the global source.
func Generate(length int, includeSymbols bool) (string, error) {
	return defaultGenerator.Generate(Options{Length: length, IncludeSymbols: includeSymbols})
}
