package cluster

// unionFind is a flat disjoint-set forest over element indices with
// union by rank and path compression. No node objects, just two int slices.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]] // halve the path
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}

// sets groups the element indices by their root. Only membership is defined;
// the root an element lands under depends on union order and carries no
// meaning.
func (uf *unionFind) sets() map[int][]int {
	out := make(map[int][]int)
	for i := range uf.parent {
		r := uf.find(i)
		out[r] = append(out[r], i)
	}
	return out
}
