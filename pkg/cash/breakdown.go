package cash

// Denominations is the fixed descending set of note and coin face values
// used for cash drawer preparation. Every value here is an integer multiple
// of the next smaller one; the greedy breakdown below is count-optimal only
// under that property, so changing the set requires re-deriving the
// algorithm (e.g. switching to dynamic programming).
var Denominations = [...]int64{1000, 500, 100, 50, 10, 5, 1}

// Counts holds the per-denomination piece counts of one breakdown, indexed
// in the same order as Denominations.
type Counts [len(Denominations)]int64

// Breakdown decomposes a non-negative amount into denomination counts with
// the classical greedy change algorithm: largest note first, remainder
// carried down. The smallest denomination is 1, so the remainder after the
// last step is always exactly zero.
func Breakdown(amount int64) Counts {
	var out Counts
	if amount < 0 {
		return out
	}
	rest := amount
	for i, d := range Denominations {
		out[i] = rest / d
		rest -= out[i] * d
	}
	if rest != 0 {
		// unreachable while the smallest denomination is 1
		panic("cash: breakdown left a remainder")
	}
	return out
}

// Total reconstructs the amount the counts were computed from.
func (c Counts) Total() int64 {
	var sum int64
	for i, d := range Denominations {
		sum += c[i] * d
	}
	return sum
}

// Pieces returns the total number of notes and coins.
func (c Counts) Pieces() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	for i := range c {
		c[i] += other[i]
	}
}
