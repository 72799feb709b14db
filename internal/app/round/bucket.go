package round

// bucket is an insertion-ordered set of track IDs with O(1) add, remove and
// indexed access. Removal swaps the last member into the freed slot, so the
// member order depends only on the sequence of operations, which keeps seeded
// draws reproducible.
type bucket struct {
	ids   []string
	index map[string]int
}

func newBucket() *bucket {
	return &bucket{index: make(map[string]int)}
}

func (b *bucket) add(id string) {
	if _, ok := b.index[id]; ok {
		return
	}
	b.index[id] = len(b.ids)
	b.ids = append(b.ids, id)
}

func (b *bucket) remove(id string) bool {
	i, ok := b.index[id]
	if !ok {
		return false
	}
	last := len(b.ids) - 1
	if i != last {
		b.ids[i] = b.ids[last]
		b.index[b.ids[i]] = i
	}
	b.ids = b.ids[:last]
	delete(b.index, id)
	return true
}

func (b *bucket) has(id string) bool {
	_, ok := b.index[id]
	return ok
}

func (b *bucket) len() int {
	return len(b.ids)
}

func (b *bucket) at(i int) string {
	return b.ids[i]
}

func (b *bucket) members() []string {
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}
