// Package codes implements the public access-code generator and the
// minute-rotating extension-code scheme the extend flow is gated on.
package codes

import (
	"math/rand"
	"strings"
	"sync"
)

// AccessCodeLength is the fixed length of every public access code
const AccessCodeLength = 12

const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// AccessCodeGenerator produces random access codes. The codes are short-lived
// anti-guessing tokens, not credentials, so math/rand is deliberate.
type AccessCodeGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAccessCodeGenerator returns a generator seeded with seed. One generator
// per process is enough; Generate is safe for concurrent use.
func NewAccessCodeGenerator(seed int64) *AccessCodeGenerator {
	return &AccessCodeGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns a fresh 12-character code from [A-Za-z0-9]
func (g *AccessCodeGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	b.Grow(AccessCodeLength)
	for i := 0; i < AccessCodeLength; i++ {
		b.WriteByte(accessCodeAlphabet[g.rng.Intn(len(accessCodeAlphabet))])
	}
	return b.String()
}
