package service

import (
	"hash/fnv"
	"sync"
)

const generationStripes = 256

// generations counts cache invalidations per owner, striped so memory stays
// fixed. Owners sharing a stripe only cost each other a skipped cache fill.
type generations struct {
	mu sync.Mutex
	n  [generationStripes]uint64
}

func stripeOf(ownerKey string) int {
	h := fnv.New32a()
	h.Write([]byte(ownerKey))
	return int(h.Sum32() % generationStripes)
}

func (g *generations) current(ownerKey string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n[stripeOf(ownerKey)]
}

// fillIf runs fill only when no invalidation happened since seen was read.
// fill and bump are serialized, so a fill either lands before the
// invalidating delete or not at all.
func (g *generations) fillIf(ownerKey string, seen uint64, fill func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.n[stripeOf(ownerKey)] != seen {
		return false
	}
	fill()
	return true
}

func (g *generations) bump(ownerKey string, drop func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n[stripeOf(ownerKey)]++
	drop()
}
