// Package ranking assigns standard competition ranks ("1224" ranking) to
// rows that are already sorted.
package ranking

// Competition returns 1-based ranks for n sorted rows. Row i shares the rank
// of row i-1 when same(i-1, i) is true; otherwise it is ranked i+1, so a tie
// block of size k is followed by a gap of k-1.
func Competition(n int, same func(prev, cur int) bool) []int {
	ranks := make([]int, n)
	for i := 0; i < n; i++ {
		if i > 0 && same(i-1, i) {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}
