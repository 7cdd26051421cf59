package cluster

// Distance calculates the edit distance between two strings: insertions,
// deletions, substitutions, and adjacent transpositions all cost one. A
// transposed pair is a single typing slip, and counting it as two edits
// pushes common slips like "springfeild" past the clustering ratio.
//
// Uses three rows of the dynamic-programming matrix, no full allocation.
func Distance(a, b string) int {
	lenA, lenB := len(a), len(b)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Keep a as the shorter string so the rows stay small.
	if lenA > lenB {
		a, b = b, a
		lenA, lenB = lenB, lenA
	}

	prevPrev := make([]int, lenA+1)
	prev := make([]int, lenA+1)
	curr := make([]int, lenA+1)

	for i := 0; i <= lenA; i++ {
		prev[i] = i
	}

	for j := 1; j <= lenB; j++ {
		curr[0] = j
		for i := 1; i <= lenA; i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if d := prevPrev[i-2] + cost; d < curr[i] {
					curr[i] = d // transposition
				}
			}
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}

	return prev[lenA]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
