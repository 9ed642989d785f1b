package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed of a propagation run. Equal keys and
// equal inputs give equal signal states and equal ATP consumption.
type SimulationKey int64

// NewSimulationKey wraps seed as a SimulationKey.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Random stream names.
const (
	// SubsystemSignal feeds activation rolls. It is seeded with the key
	// itself, so --seed N rolls exactly like rand.NewSource(N).
	SubsystemSignal = "signal"

	// SubsystemATP feeds random token placement.
	SubsystemATP = "atp"
)

// RandomSource supplies activation rolls in [0, 1).
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// PartitionedRNG hands out one independent *rand.Rand per named stream, all
// derived from a single SimulationKey. Draws on one stream never move
// another. Use from one goroutine.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG returns a PartitionedRNG with no streams opened yet.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: map[string]*rand.Rand{}}
}

// ForSubsystem opens the named stream on first use and returns the same
// *rand.Rand on every later call.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	r, ok := p.streams[name]
	if !ok {
		r = rand.New(rand.NewSource(p.seedFor(name)))
		p.streams[name] = r
	}
	return r
}

// Key returns the master key.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// seedFor mixes the stream name into the key. The signal stream keeps the
// bare key.
func (p *PartitionedRNG) seedFor(name string) int64 {
	seed := int64(p.key)
	if name != SubsystemSignal {
		seed ^= nameHash(name)
	}
	return seed
}

// nameHash is the 64-bit FNV-1a hash of name.
func nameHash(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}
