package meshid

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/meshid/internal/conv"
	"github.com/hupe1980/meshid/internal/isort"
)

// MaxSize is the largest number of entities a single Map can hold. Local
// indices must fit 32 bits and the platform int.
const MaxSize = min(math.MaxUint32-1, math.MaxInt)

// Map is a bidirectional mapping between global ids and 1-based local
// indices for the entities owned by one worker.
//
// A Map goes through a single-threaded build phase (SetSize followed by any
// number of SetMap calls, in any order) and a read phase. The first query
// freezes the map. Read operations are safe for concurrent use once the
// build phase is over; the lazy reverse-order build is guarded so that
// concurrent first use does not race. Calling SetMap again starts a new
// build phase and must not overlap with readers.
//
// Lookups from global id to local index always answer in definition order.
// A redefinition changes the forward array only and records how the new
// order relates to the defined one, see MapFieldToDBOrder.
type Map struct {
	opts   options
	logger *Logger

	// fwd[i] is the global id of local index i. fwd[0] is unused.
	fwd []int64
	seq sequentialDetector

	// db holds the ids in definition order once the map has been
	// redefined; nil means it equals fwd.
	db    []int64
	dbSeq sequentialDetector

	// written holds the local indices defined so far.
	written *roaring.Bitmap

	// pending lists the defined local indices. It is the input permutation
	// of the reverse-order sort.
	pending []int64

	mu     sync.Mutex
	frozen atomic.Pointer[frozenState]
}

// frozenState is the read-phase view of a Map.
type frozenState struct {
	// err is set if the map was queried before every local index was written.
	err error

	once       sync.Once
	reverse    []int64
	duplicates int

	reorderOnce sync.Once
	reorder     []int64
	reorderErr  error
}

// New creates an empty map. Call SetSize before inserting segments.
func New(optFns ...Option) *Map {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	m := &Map{
		opts:    opts,
		logger:  opts.logger.WithMap(opts.name),
		fwd:     make([]int64, 1),
		written: roaring.New(),
	}
	return m
}

// Name returns the map name.
func (m *Map) Name() string { return m.opts.name }

// Width returns the configured id width.
func (m *Map) Width() IDWidth { return m.opts.width }

// Size returns the number of local indices.
func (m *Map) Size() int { return len(m.fwd) - 1 }

// SetSize (re)initializes the map to hold count entities. All previous
// contents, the sequential state and any reverse order are discarded.
func (m *Map) SetSize(count int) error {
	if count < 0 || count > MaxSize {
		return &RangeError{Offset: 0, Count: count, Size: MaxSize}
	}

	m.fwd = make([]int64, count+1)
	m.seq.reset()
	m.db = nil
	m.dbSeq.reset()
	m.written = roaring.New()
	m.pending = nil
	m.frozen.Store(nil)
	return nil
}

// SetMap writes ids into local indices [offset+1, offset+len(ids)].
//
// Segments may arrive in any order. An empty segment is a no-op. With
// buildReverse set, the segment defines new entries: its local indices join
// the input of the reverse-order sort and writing an index a second time is
// a contract violation.
//
// With buildReverse unset the segment redefines entries that are already
// defined, typically with the same ids in a new order. Only the forward
// array changes: GlobalToLocal keeps returning the defined positions and the
// map records a reorder from the new order back to the defined one. A
// segment whose indices are all undefined is treated as a definition;
// mixing defined and undefined indices is a contract violation.
func (m *Map) SetMap(ids []int64, offset int, buildReverse bool) error {
	return setMap(m, ids, offset, buildReverse)
}

// SetMap32 is SetMap for 32-bit id buffers.
func (m *Map) SetMap32(ids []int32, offset int, buildReverse bool) error {
	return setMap(m, ids, offset, buildReverse)
}

func setMap[T int32 | int64](m *Map, ids []T, offset int, buildReverse bool) error {
	start := time.Now()
	err := writeSegment(m, ids, offset, buildReverse)
	m.opts.metrics.RecordSetMap(len(ids), time.Since(start), err)
	m.logger.LogSetMap(context.Background(), offset, len(ids), err)
	return err
}

func writeSegment[T int32 | int64](m *Map, ids []T, offset int, buildReverse bool) error {
	size := m.Size()
	if offset < 0 || len(ids) > size || offset > size-len(ids) {
		return &RangeError{Offset: offset, Count: len(ids), Size: size}
	}
	if len(ids) == 0 {
		return nil
	}

	if m.opts.width == Int32 {
		for _, id := range ids {
			if _, err := conv.Int64ToInt32(int64(id)); err != nil {
				return &WidthError{ID: int64(id), Width: Int32, cause: err}
			}
		}
	}

	lo, hi := uint64(offset+1), uint64(offset+len(ids)+1)
	n := m.overlap(lo, hi)
	define := buildReverse || n == 0

	var reason string
	switch {
	case define && n > 0:
		reason = fmt.Sprintf("%d local indices in [%d, %d) already written", n, lo, hi)
	case !define && n != uint64(len(ids)):
		reason = fmt.Sprintf("redefinition of [%d, %d) with %d undefined local indices", lo, hi, uint64(len(ids))-n)
	}
	if reason != "" {
		err := &ContractViolationError{Reason: reason, Local: int64(lo)}
		m.logger.LogContractViolation(context.Background(), err)
		return err
	}

	// Starting a new build phase invalidates any reverse order.
	m.frozen.Store(nil)

	if !define && m.db == nil {
		m.db = slices.Clone(m.fwd)
		m.dbSeq = m.seq
	}

	for i, id := range ids {
		m.fwd[offset+i+1] = int64(id)
	}

	first, contiguous := int64(ids[0]), isContiguous(ids)
	if m.seq.observe(first, offset, contiguous) {
		m.logger.LogSequentialLost(context.Background(), offset, first)
	}

	if define {
		if m.db != nil {
			for i, id := range ids {
				m.db[offset+i+1] = int64(id)
			}
			m.dbSeq.observe(first, offset, contiguous)
		}
		m.written.AddRange(lo, hi)
		for local := lo; local < hi; local++ {
			m.pending = append(m.pending, int64(local))
		}
	}
	return nil
}

// overlap returns how many local indices in [lo, hi) are already written.
func (m *Map) overlap(lo, hi uint64) uint64 {
	// Rank(x) counts written indices <= x.
	return m.written.Rank(uint32(hi-1)) - m.written.Rank(uint32(lo-1))
}

// IsSequential reports whether local index i maps to global id base+i for
// every i.
//
// With checkAll false the answer comes from the incremental bookkeeping done
// by SetMap and costs O(1). With checkAll true the forward array is verified
// element by element, independently of the cached state. For maps built in
// define mode both answers agree.
func (m *Map) IsSequential(checkAll bool) bool {
	if checkAll {
		return verifySequential(m.fwd)
	}
	return m.seq.sequential(m.Size())
}

// Base returns the offset between global ids and local indices of a
// sequential map. ok is false if the map is not sequential.
func (m *Map) Base() (base int64, ok bool) {
	if m.seq.state != seqSequential {
		return 0, false
	}
	return m.seq.base, true
}

// Covered reports whether every local index has been written.
func (m *Map) Covered() bool {
	return m.written.GetCardinality() == uint64(m.Size())
}

// Redefined reports whether the map was redefined since SetSize.
func (m *Map) Redefined() bool { return m.db != nil }

// defined returns the ids in definition order and their sequential state.
func (m *Map) defined() ([]int64, *sequentialDetector) {
	if m.db != nil {
		return m.db, &m.dbSeq
	}
	return m.fwd, &m.seq
}

// definedBase is Base for the definition order.
func (m *Map) definedBase() (int64, bool) {
	_, d := m.defined()
	if d.state != seqSequential {
		return 0, false
	}
	return d.base, true
}

// GlobalToLocal returns the local index the global id was defined at.
//
// Sequential maps answer in O(1). Otherwise the first call sorts the local
// indices by global id once and every call binary-searches that order.
func (m *Map) GlobalToLocal(id int64) (int64, error) {
	s := m.freeze()
	if s.err != nil {
		return 0, s.err
	}

	local, err := m.lookup(s, id)
	m.opts.metrics.RecordLookup(err == nil)
	return local, err
}

// LocalToGlobal returns the global id stored at a local index.
func (m *Map) LocalToGlobal(local int64) (int64, error) {
	if local < 1 || local > int64(m.Size()) {
		return 0, &RangeError{Offset: int(local) - 1, Count: 1, Size: m.Size()}
	}
	return m.fwd[local], nil
}

func (m *Map) lookup(s *frozenState, id int64) (int64, error) {
	if base, ok := m.definedBase(); ok {
		local := id - base
		if local < 1 || local > int64(m.Size()) {
			return 0, &NotFoundError{ID: id}
		}
		return local, nil
	}

	keys, _ := m.defined()
	r := s.reverseOrder(m)
	k := sort.Search(len(r), func(i int) bool {
		return keys[r[i]] >= id
	})
	if k < len(r) && keys[r[k]] == id {
		return r[k], nil
	}
	return 0, &NotFoundError{ID: id}
}

// Warm freezes the map and builds the reverse order and the reorder if the
// map needs them. Call it before handing the map to concurrent readers.
func (m *Map) Warm() error {
	s := m.freeze()
	if s.err != nil {
		return s.err
	}
	if _, ok := m.definedBase(); !ok {
		s.reverseOrder(m)
	}
	_, err := s.reorderMap(m)
	return err
}

// Validate runs the opportunistic contract checks: every local index must be
// written, no global id may appear twice and a redefinition may only
// reorder defined ids. Duplicate detection needs the reverse order and
// builds it if necessary.
func (m *Map) Validate() error {
	s := m.freeze()
	if s.err != nil {
		return s.err
	}
	if _, err := s.reorderMap(m); err != nil {
		return err
	}
	if _, ok := m.definedBase(); ok {
		return nil
	}

	s.reverseOrder(m)
	if s.duplicates > 0 {
		err := &ContractViolationError{
			Reason: fmt.Sprintf("%d duplicate global ids", s.duplicates),
		}
		m.logger.LogContractViolation(context.Background(), err)
		return err
	}
	return nil
}

// AppendIDs appends the forward array, in local order, to dst.
func (m *Map) AppendIDs(dst []int64) []int64 {
	return append(dst, m.fwd[1:]...)
}

// AppendDefinedIDs appends the ids in definition order to dst. It equals
// AppendIDs unless the map was redefined.
func (m *Map) AppendDefinedIDs(dst []int64) []int64 {
	keys, _ := m.defined()
	return append(dst, keys[1:]...)
}

func (m *Map) freeze() *frozenState {
	if s := m.frozen.Load(); s != nil {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.frozen.Load(); s != nil {
		return s
	}

	s := &frozenState{}
	if !m.Covered() {
		s.err = &ContractViolationError{
			Reason: fmt.Sprintf("queried with %d of %d local indices written", m.written.GetCardinality(), m.Size()),
		}
		m.logger.LogContractViolation(context.Background(), s.err)
	}

	m.frozen.Store(s)
	return s
}

func (s *frozenState) reverseOrder(m *Map) []int64 {
	s.once.Do(func() {
		s.reverse, s.duplicates = m.buildReverse()
	})
	return s.reverse
}

// buildReverse sorts local indices by global id. It runs at most once per
// build phase.
func (m *Map) buildReverse() ([]int64, int) {
	start := time.Now()
	size := m.Size()

	keys, _ := m.defined()
	perm := m.pending
	if len(perm) != size {
		perm = make([]int64, size)
		for i := range perm {
			perm[i] = int64(i + 1)
		}
	}

	isort.Sort(keys, perm)

	duplicates := 0
	for i := 1; i < len(perm); i++ {
		if keys[perm[i]] == keys[perm[i-1]] {
			duplicates++
		}
	}

	elapsed := time.Since(start)
	m.opts.metrics.RecordReverseBuild(size, elapsed)
	m.logger.LogReverseBuild(context.Background(), size, elapsed)
	return perm, duplicates
}
