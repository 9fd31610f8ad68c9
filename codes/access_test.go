package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	gen := NewAccessCodeGenerator(1)
	for i := 0; i < 100; i++ {
		code := gen.Generate()
		assert.Len(t, code, AccessCodeLength)
		for _, c := range code {
			assert.Contains(t, accessCodeAlphabet, string(c))
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	a := NewAccessCodeGenerator(42)
	b := NewAccessCodeGenerator(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestGenerateDoesNotRepeatQuickly(t *testing.T) {
	gen := NewAccessCodeGenerator(7)
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		code := gen.Generate()
		assert.False(t, seen[code], "duplicate code %q after %d draws", code, i)
		seen[code] = true
	}
}
