// Package isort provides an indexed sort: it orders a permutation array by
// the values it points at, leaving the value array untouched.
//
// The algorithm is a median-of-three quicksort that stops partitioning once
// an interval shrinks below a small cutoff, followed by a single insertion
// sort pass over the whole (by then nearly sorted) permutation. Residual
// disorder is confined to cutoff-sized windows, so the final pass is close to
// linear.
//
// # Usage
//
//	perm := isort.Identity[int64](len(values))
//	isort.Sort(values, perm)
//	// values[perm[0]] <= values[perm[1]] <= ...
package isort
