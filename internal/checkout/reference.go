package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferenceGenerator issues human-readable order references.
type ReferenceGenerator interface {
	Next(now time.Time) string
}

// RandomReferences yields "<prefix>-<year>-<4 chars>" references. Collisions
// are possible; the orders table rejects them with a unique index.
type RandomReferences struct {
	prefix string
}

func NewRandomReferences(prefix string) RandomReferences {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "WS"
	}
	return RandomReferences{prefix: prefix}
}

func (r RandomReferences) Next(now time.Time) string {
	suffix := make([]byte, 4)
	limit := big.NewInt(int64(len(referenceAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			suffix[i] = referenceAlphabet[0]
			continue
		}
		suffix[i] = referenceAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%d-%s", r.prefix, now.Year(), suffix)
}
