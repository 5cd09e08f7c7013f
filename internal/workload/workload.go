// Package workload generates the key streams and operation mixes used by the
// benchmarks and by cmd/orderedbench.
package workload

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Distribution selects how keys are drawn from [0, KeyRange).
type Distribution int

const (
	Uniform Distribution = iota
	Ascending
	Zipf
)

// Distributions lists every distribution with its command line name.
var Distributions = []struct {
	Name string
	Kind Distribution
}{
	{Name: "uniform", Kind: Uniform},
	{Name: "ascending", Kind: Ascending},
	{Name: "zipf", Kind: Zipf},
}

// ParseDistribution maps a name from Distributions to its kind.
func ParseDistribution(name string) (Distribution, error) {
	for _, d := range Distributions {
		if d.Name == name {
			return d.Kind, nil
		}
	}
	return 0, errors.Errorf("unknown workload distribution %q", name)
}

func (d Distribution) String() string {
	for _, known := range Distributions {
		if known.Kind == d {
			return known.Name
		}
	}
	return "unknown"
}

// Op is a single operation of a workload.
type Op int

const (
	OpPut Op = iota
	OpDelete
	OpGet
	OpContains
)

// Generator produces a reproducible stream of (op, key, value) triples.
type Generator struct {
	r            *rand.Rand
	zipf         *rand.Zipf
	kind         Distribution
	keyRange     int
	writePercent int
	next         int
}

// NewGenerator returns a generator drawing keys from [0, keyRange) where
// writePercent of the operations are puts or deletes.
func NewGenerator(kind Distribution, keyRange, writePercent int, seed int64) *Generator {
	if keyRange < 1 {
		keyRange = 1
	}
	g := &Generator{
		r:            rand.New(rand.NewSource(seed)),
		kind:         kind,
		keyRange:     keyRange,
		writePercent: writePercent,
	}
	if kind == Zipf {
		upper := uint64(keyRange - 1)
		if upper == 0 {
			upper = 1
		}
		g.zipf = rand.NewZipf(g.r, 1.2, 1, upper)
	}
	return g
}

// Key draws the next key.
func (g *Generator) Key() int {
	switch g.kind {
	case Ascending:
		k := g.next % g.keyRange
		g.next++
		return k
	case Zipf:
		return int(g.zipf.Uint64())
	default:
		return g.r.Intn(g.keyRange)
	}
}

// Next draws the next operation, key and value.
func (g *Generator) Next() (Op, int, int) {
	key := g.Key()
	if g.r.Intn(100) < g.writePercent {
		if g.r.Intn(2) == 0 {
			return OpPut, key, g.r.Intn(1 << 16)
		}
		return OpDelete, key, 0
	}
	if g.r.Intn(2) == 0 {
		return OpGet, key, 0
	}
	return OpContains, key, 0
}
