// Package drawrand provides the deterministic randomness source used by the
// draw engine. The source is an explicit strategy rather than global random
// state so draws are reproducible and independently testable.
package drawrand

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source yields a deterministic stream of floats in [0, 1). The same seed
// input always produces the same stream.
type Source interface {
	Float64() float64
}

type seededSource struct {
	rng *rand.Rand
}

// New derives a Source from an operator-supplied seed string and the
// campaign id. The campaign id is part of the key so the same seed used on
// two campaigns does not produce colliding sequences.
func New(seed string, campaignID uint) Source {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", seed, campaignID)))
	key := int64(binary.BigEndian.Uint64(sum[:8]))

	return &seededSource{
		rng: rand.New(rand.NewSource(key)),
	}
}

func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}
