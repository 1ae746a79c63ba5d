package extract

// Tally counts the crops saved per digit.
type Tally [10]int

// Add counts one more crop of digit d and returns the new count.
func (t *Tally) Add(d int) int {
	t[d]++
	return t[d]
}

// Merge adds the counts of o.
func (t *Tally) Merge(o Tally) {
	for d := range t {
		t[d] += o[d]
	}
}

// Total returns the number of crops counted.
func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}
