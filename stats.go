package ordered

// Stats is a snapshot of a container's structural counters. Counters that do
// not apply to a container stay zero. Splits and Merges are B-tree node
// splits and merges, or the recursive steps of the treap primitives.
// Rotations are red-black rotations. Rebalances counts the remaining
// restructuring steps: B-tree borrows, red-black recolorings, skip list level
// changes, pruned trie nodes and sorted set reallocations.
type Stats struct {
	Len    int
	Nodes  int
	Height int

	Inserts uint64
	Updates uint64
	Deletes uint64

	Splits     uint64
	Merges     uint64
	Rotations  uint64
	Rebalances uint64

	// AllocFailures counts operations refused by the allocator.
	AllocFailures uint64
}

// Counters are the mutable counters embedded in each container. They are
// plain integers: containers are single-threaded.
type Counters struct {
	Inserts       uint64
	Updates       uint64
	Deletes       uint64
	Splits        uint64
	Merges        uint64
	Rotations     uint64
	Rebalances    uint64
	AllocFailures uint64
}

// Snapshot combines the counters with the shape values only the container
// knows.
func (c *Counters) Snapshot(length, nodes, height int) Stats {
	return Stats{
		Len:           length,
		Nodes:         nodes,
		Height:        height,
		Inserts:       c.Inserts,
		Updates:       c.Updates,
		Deletes:       c.Deletes,
		Splits:        c.Splits,
		Merges:        c.Merges,
		Rotations:     c.Rotations,
		Rebalances:    c.Rebalances,
		AllocFailures: c.AllocFailures,
	}
}
