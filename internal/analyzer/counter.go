package analyzer

import "sort"

// Counter tallies terms while remembering the order each was first seen, so
// rankings break ties deterministically.
type Counter struct {
	index  map[string]int
	counts []TermCount
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{index: make(map[string]int)}
}

// Add increments term by n.
func (c *Counter) Add(term string, n int) {
	if i, ok := c.index[term]; ok {
		c.counts[i].Count += n
		return
	}
	c.index[term] = len(c.counts)
	c.counts = append(c.counts, TermCount{Term: term, Count: n})
}

// AddAll adds every TermCount in tcs.
func (c *Counter) AddAll(tcs []TermCount) {
	for _, tc := range tcs {
		c.Add(tc.Term, tc.Count)
	}
}

// Len returns the number of distinct terms.
func (c *Counter) Len() int { return len(c.counts) }

// Get returns the count for term.
func (c *Counter) Get(term string) int {
	if i, ok := c.index[term]; ok {
		return c.counts[i].Count
	}
	return 0
}

// Top returns up to n terms by descending count, ties in first-seen order.
// n <= 0 returns every term. The result is never nil.
func (c *Counter) Top(n int) []TermCount {
	out := make([]TermCount, len(c.counts))
	copy(out, c.counts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Terms returns the terms of Top(n).
func (c *Counter) Terms(n int) []string {
	top := c.Top(n)
	out := make([]string, len(top))
	for i, tc := range top {
		out[i] = tc.Term
	}
	return out
}
