// Package cluster groups near-duplicate spelling variants by bounded edit
// distance. It is the engine behind the street-name and city-name
// correction rules: all spellings sharing one grouping key (a building, a
// validated ZIP) are partitioned into equivalence clusters, and each cluster
// resolves to a canonical spelling by occurrence frequency.
//
// Everything here is pure: no side effects, no error states. Empty input
// yields no clusters.
package cluster

import "sort"

// DefaultThreshold is the default edit-distance ratio below which two
// variants are considered the same name.
const DefaultThreshold = 0.10

// Partition splits a set of distinct variants into clusters of mutually
// reachable spellings. Two variants link when their edit distance divided by
// the longer length is strictly below threshold; clusters are the connected
// components of those links.
//
// Membership is independent of input order: every unordered pair is
// considered against the same symmetric predicate, so the component structure
// is a property of the variant set alone. Variants are still sorted (length
// ascending, then lexicographic) so the pair walk and the returned ordering
// are reproducible.
func Partition(variants []string, threshold float64) [][]string {
	if len(variants) == 0 {
		return nil
	}

	sorted := append([]string(nil), variants...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) < len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	uf := newUnionFind(len(sorted))

	for i := 0; i < len(sorted); i++ {
		len1 := len(sorted[i])
		for j := i + 1; j < len(sorted); j++ {
			len2 := len(sorted[j])
			longer := len1
			if len2 > longer {
				longer = len2
			}
			diff := len2 - len1
			if diff < 0 {
				diff = -diff
			}
			// Cheap reject: a length gap this large already implies the
			// ratio test cannot pass.
			if diff > 2 && float64(diff)/float64(longer) >= threshold {
				continue
			}
			if float64(Distance(sorted[i], sorted[j]))/float64(longer) < threshold {
				uf.union(i, j)
			}
		}
	}

	var clusters [][]string
	for _, members := range uf.sets() {
		c := make([]string, 0, len(members))
		for _, i := range members {
			c = append(c, sorted[i])
		}
		sort.Strings(c)
		clusters = append(clusters, c)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}

// Representative picks the canonical spelling for a cluster: the candidate
// with the highest raw occurrence count, ties going to the lexicographically
// greatest literal. freq maps original spellings to how often they occurred
// in the non-normalized source data for the grouping key.
func Representative(candidates []string, freq map[string]int) string {
	best := ""
	bestCount := -1
	for _, c := range candidates {
		n := freq[c]
		if n > bestCount || (n == bestCount && c > best) {
			best = c
			bestCount = n
		}
	}
	return best
}
