// Package fuzzy scores string similarity on a 0-100 scale.
//
// The score is the normalized Indel similarity: 100 * (1 - d / (len(a)+len(b)))
// where d is the minimum number of single-rune insertions and deletions turning
// a into b. It equals 2*LCS/(len(a)+len(b)) and is the same measure the original
// listing tools used for their thresholds, so 85 and 80 keep their meaning.
package fuzzy

// Ratio returns the similarity of a and b in [0, 100]. Comparison is rune-wise
// and case-sensitive; callers lowercase first. Two empty strings score 100.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(ra, rb)) / float64(total)
}

// lcs returns the length of the longest common subsequence of a and b
func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
