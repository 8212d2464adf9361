package meshid

type seqState uint8

const (
	seqUnset seqState = iota
	seqSequential
	seqNotSequential
)

// sequentialDetector tracks, segment by segment, whether everything written
// so far is one contiguous ascending run F[i] = base + i.
//
// Each segment is checked against the base established by the first
// non-empty segment at its own offset, so the outcome does not depend on the
// order segments arrive in. Once a segment fails the check the state is
// seqNotSequential until reset.
type sequentialDetector struct {
	state seqState
	base  int64
}

func (d *sequentialDetector) reset() {
	d.state = seqUnset
	d.base = 0
}

// observe records a non-empty segment whose first id is first, written at
// the 0-based offset. contiguous reports whether the segment itself is an
// ascending run without gaps. It returns true if this segment caused the
// transition to seqNotSequential.
func (d *sequentialDetector) observe(first int64, offset int, contiguous bool) bool {
	if d.state == seqNotSequential {
		return false
	}
	if !contiguous {
		d.state = seqNotSequential
		return true
	}

	switch d.state {
	case seqUnset:
		d.base = first - int64(offset) - 1
		d.state = seqSequential
	case seqSequential:
		if first != d.base+int64(offset)+1 {
			d.state = seqNotSequential
			return true
		}
	}
	return false
}

// sequential reports the cached answer. An empty map is trivially sequential.
func (d *sequentialDetector) sequential(size int) bool {
	switch d.state {
	case seqSequential:
		return true
	case seqUnset:
		return size == 0
	default:
		return false
	}
}

func isContiguous[T int32 | int64](ids []T) bool {
	for i := 1; i < len(ids); i++ {
		if int64(ids[i]) != int64(ids[i-1])+1 {
			return false
		}
	}
	return true
}

// verifySequential checks F[i] = F[1] + (i-1) over the whole forward array.
// fwd[0] is unused. It shares no state with sequentialDetector.
func verifySequential(fwd []int64) bool {
	if len(fwd) <= 2 {
		return true
	}
	first := fwd[1]
	for i := 2; i < len(fwd); i++ {
		if fwd[i] != first+int64(i-1) {
			return false
		}
	}
	return true
}
