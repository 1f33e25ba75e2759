package id

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	timeHexLen   = 12
	randomBytes  = 10
	encodedIDLen = timeHexLen + 2*randomBytes
)

type Generator interface {
	NewID() (string, error)
}

// RandomGenerator emits prefix followed by 32 lowercase hex characters: the
// creation time in milliseconds, then 80 random bits. IDs from one generator
// sort by creation time.
type RandomGenerator struct {
	prefix string
	now    func() time.Time
}

func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix, now: time.Now}
}

func (g *RandomGenerator) NewID() (string, error) {
	var raw [6 + randomBytes]byte
	ms := uint64(g.now().UnixMilli())
	for i := 5; i >= 0; i-- {
		raw[i] = byte(ms)
		ms >>= 8
	}
	if _, err := rand.Read(raw[6:]); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	buf := make([]byte, len(g.prefix)+encodedIDLen)
	copy(buf, g.prefix)
	hex.Encode(buf[len(g.prefix):], raw[:])
	return string(buf), nil
}
