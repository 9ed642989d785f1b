package sim

import (
	"math/rand"
	"sort"

	"github.com/geoffreypi/strand-game-sub000/sim/hex"
)

// ATPSet holds one-shot energy tokens keyed by "q,r" position.
// Consuming a token removes it; a token satisfies at most one activation.
type ATPSet map[string]struct{}

// NewATPSet creates a set holding the given position keys.
func NewATPSet(keys ...string) ATPSet {
	s := make(ATPSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add places a token at key.
func (s ATPSet) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether a token is present at key.
func (s ATPSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Consume removes the token at key, reporting whether one was there.
func (s ATPSet) Consume(key string) bool {
	if _, ok := s[key]; !ok {
		return false
	}
	delete(s, key)
	return true
}

// Len returns the number of tokens.
func (s ATPSet) Len() int {
	return len(s)
}

// Keys returns the token keys in sorted order.
func (s ATPSet) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of s.
func (s ATPSet) Clone() ATPSet {
	out := make(ATPSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// consumeAdjacent takes the first token found around c in neighbor order.
func (s ATPSet) consumeAdjacent(c hex.Coord) (string, bool) {
	for _, n := range hex.Neighbors(c) {
		key := n.Coord.Key()
		if s.Consume(key) {
			return key, true
		}
	}
	return "", false
}

// PlaceATP adds up to n tokens on distinct candidate hexes chosen
// uniformly at random, skipping hexes that already hold a token.
// Returns the keys placed, in placement order.
//
// Placement is uniform; consumption is first-found in neighbor order.
// Pass the SubsystemATP stream so placement never perturbs activation rolls.
func PlaceATP(rng *rand.Rand, s ATPSet, candidates []hex.Coord, n int) []string {
	free := make([]hex.Coord, 0, len(candidates))
	seen := make(map[hex.Coord]bool, len(candidates))
	for _, c := range candidates {
		if seen[c] || s.Has(c.Key()) {
			continue
		}
		seen[c] = true
		free = append(free, c)
	}
	if n > len(free) {
		n = len(free)
	}
	placed := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(free)-i)
		free[i], free[j] = free[j], free[i]
		key := free[i].Key()
		s.Add(key)
		placed = append(placed, key)
	}
	return placed
}
