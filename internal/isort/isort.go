package isort

import "cmp"

// Cutoff is the interval size below which partitioning stops and the final
// insertion pass takes over.
const Cutoff = 12

// Index is the set of integer types usable as permutation entries.
type Index interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64
}

// Identity returns the permutation [0, 1, ..., n-1].
func Identity[I Index](n int) []I {
	p := make([]I, n)
	for i := range p {
		p[i] = I(i)
	}
	return p
}

// Sort reorders p in place so that v[p[0]] <= v[p[1]] <= ... <= v[p[len(p)-1]].
// v is only read through p. The sort is not stable.
//
// Every entry of p must be a valid index into v. p does not have to start
// as the identity; any arrangement of indices is accepted.
func Sort[V cmp.Ordered, I Index](v []V, p []I) {
	if len(p) <= 1 {
		return
	}

	quicksort(v, p)
	insertionSort(v, p)
}

// IsSorted reports whether v[p[i-1]] <= v[p[i]] for every i.
func IsSorted[V cmp.Ordered, I Index](v []V, p []I) bool {
	for i := 1; i < len(p); i++ {
		if v[p[i]] < v[p[i-1]] {
			return false
		}
	}
	return true
}

type interval struct {
	left, right int
}

// quicksort partitions p until every unsorted window is shorter than Cutoff.
// The larger half of each partition is deferred on an explicit stack and the
// smaller one processed first, which keeps the stack at O(log n).
func quicksort[V cmp.Ordered, I Index](v []V, p []I) {
	stack := make([]interval, 0, 64)
	stack = append(stack, interval{0, len(p) - 1})

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		left, right := top.left, top.right

		for left+Cutoff <= right {
			pivot := v[median3(v, p, left, right)]

			i, j := left, right-1
			for {
				for i++; v[p[i]] < pivot; i++ {
				}
				for j--; v[p[j]] > pivot; j-- {
				}
				if i >= j {
					break
				}
				p[i], p[j] = p[j], p[i]
			}
			p[i], p[right-1] = p[right-1], p[i]

			// [left, i-1] and [i+1, right] remain.
			if i-left < right-i {
				stack = append(stack, interval{i + 1, right})
				right = i - 1
			} else {
				stack = append(stack, interval{left, i - 1})
				left = i + 1
			}
		}
	}
}

// median3 orders p[left], p[center], p[right] by value, parks the median at
// right-1 and returns it. Afterwards v[p[left]] <= median <= v[p[right]], so
// the partition scans need no bounds checks.
func median3[V cmp.Ordered, I Index](v []V, p []I, left, right int) I {
	center := left + (right-left)/2

	if v[p[left]] > v[p[center]] {
		p[left], p[center] = p[center], p[left]
	}
	if v[p[left]] > v[p[right]] {
		p[left], p[right] = p[right], p[left]
	}
	if v[p[center]] > v[p[right]] {
		p[center], p[right] = p[right], p[center]
	}

	p[center], p[right-1] = p[right-1], p[center]
	return p[right-1]
}

// insertionSort finishes the nearly sorted permutation. The smallest element
// is moved to slot 0 first and acts as a sentinel for the inner loop.
func insertionSort[V cmp.Ordered, I Index](v []V, p []I) {
	smallest := 0
	for i := 1; i < len(p); i++ {
		if v[p[i]] < v[p[smallest]] {
			smallest = i
		}
	}
	p[0], p[smallest] = p[smallest], p[0]

	for i := 1; i < len(p); i++ {
		tmp := p[i]
		j := i
		for ; v[tmp] < v[p[j-1]]; j-- {
			p[j] = p[j-1]
		}
		p[j] = tmp
	}
}
