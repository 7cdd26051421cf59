package rules

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fa-reconcile/internal/cluster"
)

// spellings accumulates the spelling variants observed inside one grouping
// key: per-original frequency plus the distinct normalized forms and, per
// form, the distinct original spellings, both in first-encountered order.
type spellings struct {
	freq      map[string]int
	norms     []string
	originals map[string][]string
}

func newSpellings() spellings {
	return spellings{
		freq:      make(map[string]int),
		originals: make(map[string][]string),
	}
}

// observe records one occurrence of an original spelling under its
// normalized form.
func (s *spellings) observe(original, norm string) {
	s.freq[original]++
	if _, seen := s.originals[norm]; !seen {
		s.norms = append(s.norms, norm)
	}
	if !containsString(s.originals[norm], original) {
		s.originals[norm] = append(s.originals[norm], original)
	}
}

// resolveClusters fans the grouping keys out over a bounded worker pool and
// computes, per group, the canonical spelling for every normalized variant
// that sits in a multi-spelling cluster. Each worker reads only its own
// immutable snapshot and writes only its own result slot, so concurrency
// cannot reorder or race anything.
func resolveClusters(groups []spellings, threshold float64, workers int) []map[string]string {
	if threshold <= 0 {
		threshold = cluster.DefaultThreshold
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	best := make([]map[string]string, len(groups))
	var eg errgroup.Group
	eg.SetLimit(workers)

	for gi := range groups {
		gi := gi
		g := groups[gi]
		eg.Go(func() error {
			best[gi] = canonicalByCluster(g, threshold)
			return nil
		})
	}
	eg.Wait() // workers never fail; Wait is only a barrier

	return best
}

// canonicalByCluster partitions a group's normalized variants and maps each
// variant inside a multi-spelling cluster to the cluster's representative
// original spelling. Singleton clusters and clusters with a single original
// spelling need no correction.
func canonicalByCluster(g spellings, threshold float64) map[string]string {
	if len(g.norms) < 2 {
		return nil
	}

	out := make(map[string]string)
	for _, c := range cluster.Partition(g.norms, threshold) {
		var candidates []string
		for _, norm := range c {
			for _, orig := range g.originals[norm] {
				if !containsString(candidates, orig) {
					candidates = append(candidates, orig)
				}
			}
		}
		if len(candidates) <= 1 {
			continue
		}
		rep := cluster.Representative(candidates, g.freq)
		for _, norm := range c {
			out[norm] = rep
		}
	}
	return out
}
