package meshid

import (
	"runtime"
	"time"

	"github.com/hupe1980/meshid/field"
	"github.com/hupe1980/meshid/internal/conv"
	"golang.org/x/sync/errgroup"
)

// MapData replaces data[i] with the global id of local index i+1 for
// i in [0, count): database order in, global order out.
//
// data must be a []int32 for field.Integer fields and a []int64 for
// field.Int64 fields. Fields that do not carry ids are left unchanged.
func (m *Map) MapData(data any, f field.Field, count int) error {
	start := time.Now()
	err := m.mapData(data, f, count)
	m.opts.metrics.RecordTranslate("map", count, time.Since(start), err)
	return err
}

func (m *Map) mapData(data any, f field.Field, count int) error {
	if !f.IsID() {
		return nil
	}
	if err := m.checkCount(f, 0, count, true); err != nil {
		return err
	}
	if s := m.freeze(); s.err != nil {
		return s.err
	}

	return m.translate(data, f, count, func(i int, _ int64) (int64, error) {
		return m.fwd[i+1], nil
	})
}

// ReverseMapData is the inverse of MapData: every value of data is treated
// as a global id and replaced by its local index.
//
// If an id is not found the error is returned and data is left partially
// translated.
func (m *Map) ReverseMapData(data any, f field.Field, count int) error {
	start := time.Now()
	err := m.reverseMapData(data, f, count)
	m.opts.metrics.RecordTranslate("reverse_map", count, time.Since(start), err)
	return err
}

func (m *Map) reverseMapData(data any, f field.Field, count int) error {
	if !f.IsID() {
		return nil
	}
	if err := m.checkCount(f, 0, count, false); err != nil {
		return err
	}
	s := m.freeze()
	if s.err != nil {
		return s.err
	}
	if _, ok := m.definedBase(); !ok && count > 0 {
		s.reverseOrder(m)
	}

	return m.translate(data, f, count, func(_ int, v int64) (int64, error) {
		return m.lookup(s, v)
	})
}

// MapImplicitData fills data[i] with the global id of local index
// offset+i+1 for fields that carry no explicit id array. The forward array
// is consulted, so the result is correct for non-sequential maps as well.
func (m *Map) MapImplicitData(data any, f field.Field, count, offset int) error {
	start := time.Now()
	err := m.mapImplicitData(data, f, count, offset)
	m.opts.metrics.RecordTranslate("implicit_map", count, time.Since(start), err)
	return err
}

func (m *Map) mapImplicitData(data any, f field.Field, count, offset int) error {
	if !f.IsID() {
		return nil
	}
	if err := m.checkCount(f, offset, count, true); err != nil {
		return err
	}
	if s := m.freeze(); s.err != nil {
		return s.err
	}

	return m.translate(data, f, count, func(i int, _ int64) (int64, error) {
		return m.fwd[offset+i+1], nil
	})
}

// checkCount validates a translation request. bounded requests address
// local indices [offset+1, offset+count] and must fit the map.
func (m *Map) checkCount(f field.Field, offset, count int, bounded bool) error {
	if count < 0 || offset < 0 {
		return &RangeError{Offset: offset, Count: count, Size: m.Size()}
	}
	if f.Count > 0 && count > f.RawCount() {
		return &RangeError{Offset: offset, Count: count, Size: f.RawCount()}
	}
	if bounded && offset+count > m.Size() {
		return &RangeError{Offset: offset, Count: count, Size: m.Size()}
	}
	return nil
}

// translate dispatches on the field's id width.
func (m *Map) translate(data any, f field.Field, count int, fn func(i int, v int64) (int64, error)) error {
	switch f.Type {
	case field.Integer:
		buf, ok := data.([]int32)
		if !ok {
			return &BufferTypeError{Field: f.Name, Want: "[]int32", Got: data}
		}
		return apply(m, buf, count, fn)
	case field.Int64:
		buf, ok := data.([]int64)
		if !ok {
			return &BufferTypeError{Field: f.Name, Want: "[]int64", Got: data}
		}
		return apply(m, buf, count, fn)
	default:
		return nil
	}
}

func apply[T int32 | int64](m *Map, buf []T, count int, fn func(i int, v int64) (int64, error)) error {
	if len(buf) < count {
		return &RangeError{Offset: 0, Count: count, Size: len(buf)}
	}

	return m.forEachChunk(count, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			v, err := fn(i, int64(buf[i]))
			if err != nil {
				return err
			}
			t := T(v)
			if int64(t) != v {
				_, cause := conv.Int64ToInt32(v)
				return &WidthError{ID: v, Width: Int32, cause: cause}
			}
			buf[i] = t
		}
		return nil
	})
}

// forEachChunk runs fn over [0, n). Above the parallel threshold the range is
// split into one chunk per available CPU.
func (m *Map) forEachChunk(n int, fn func(lo, hi int) error) error {
	threshold := m.opts.parallelThreshold
	if threshold <= 0 || n <= threshold {
		return fn(0, n)
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
