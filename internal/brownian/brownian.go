// Package brownian supplies a reproducible Brownian path for SDE solves.
package brownian

import (
	"math"
	"math/rand"
	"sync"

	"github.com/san-kum/diffeq/internal/diffeq"
)

// Path is a scalar Brownian motion sampled on a fixed grid, with each grid
// increment derived deterministically from the seed and the node index.
// Queries over the same interval always return the same increment, within
// one solve and across solves with the same seed; the backward-resolve
// adjoint depends on this to see the same noise as the forward pass.
// Points between grid nodes are linearly interpolated.
type Path struct {
	seed       int64
	resolution float64

	mu  sync.Mutex
	cum []float64 // cum[k] = W(k * resolution), grown lazily
}

// New builds a path with the given seed and grid resolution. The
// resolution should be at or below the smallest step size the solve will
// take.
func New(seed int64, resolution float64) *Path {
	return &Path{seed: seed, resolution: resolution, cum: []float64{0}}
}

func (p *Path) Increment(t0, t1 float64) diffeq.Increment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return diffeq.Increment{p.value(t1) - p.value(t0)}
}

// value returns W(t) for t >= 0; caller holds the lock.
func (p *Path) value(t float64) float64 {
	if t <= 0 {
		return 0
	}
	pos := t / p.resolution
	k := int(pos)
	p.extend(k + 1)

	frac := pos - float64(k)
	w := p.cum[k]
	if frac > 0 {
		w += frac * (p.cum[k+1] - p.cum[k])
	}
	return w
}

func (p *Path) extend(upto int) {
	std := math.Sqrt(p.resolution)
	for k := len(p.cum); k <= upto; k++ {
		rng := rand.New(rand.NewSource(mix(p.seed, int64(k))))
		p.cum = append(p.cum, p.cum[k-1]+rng.NormFloat64()*std)
	}
}

// mix scrambles (seed, node) into an independent source seed.
func mix(seed, k int64) int64 {
	z := uint64(seed) + uint64(k)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
