package meshid

import (
	"context"
	"fmt"
	"time"
)

// Number is the set of element types field values can be stored in.
type Number interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// reorderMap returns, for every local index i (0-based), the 0-based
// position the entry now at i was defined at. A nil result means the map
// was not redefined or the redefinition kept every entry in place.
func (s *frozenState) reorderMap(m *Map) ([]int64, error) {
	s.reorderOnce.Do(func() {
		if m.db == nil {
			return
		}
		if _, ok := m.definedBase(); !ok {
			s.reverseOrder(m)
		}

		reorder := make([]int64, m.Size())
		identity := true
		for i := range reorder {
			local, err := m.lookup(s, m.fwd[i+1])
			if err != nil {
				s.reorderErr = &ContractViolationError{
					Reason: fmt.Sprintf("redefined global id %d was never defined", m.fwd[i+1]),
					Local:  int64(i + 1),
				}
				m.logger.LogContractViolation(context.Background(), s.reorderErr)
				return
			}
			reorder[i] = local - 1
			identity = identity && reorder[i] == int64(i)
		}
		if !identity {
			s.reorder = reorder
		}
	})
	return s.reorder, s.reorderErr
}

// DefinedLocal returns the local index at which the entry now stored at
// local was defined. It is local itself unless the map was redefined.
func (m *Map) DefinedLocal(local int64) (int64, error) {
	if local < 1 || local > int64(m.Size()) {
		return 0, &RangeError{Offset: int(local) - 1, Count: 1, Size: m.Size()}
	}
	s := m.freeze()
	if s.err != nil {
		return 0, s.err
	}
	reorder, err := s.reorderMap(m)
	if err != nil {
		return 0, err
	}
	if reorder == nil {
		return local, nil
	}
	return reorder[local-1] + 1, nil
}

// MapFieldToDBOrder puts one component of application-ordered field values
// back into database (definition) order.
//
// The entities are the local indices [begin+1, begin+count]. Their values
// are read from src[offset], src[offset+stride], ... and value j is stored
// at dst[k-begin], where k+1 is the local index entity begin+j+1 was defined
// at. Every entity of the range must have been defined within the range.
// Without a redefinition the values are copied in order.
func MapFieldToDBOrder[S, D Number](m *Map, src []S, dst []D, begin, count, stride, offset int) error {
	start := time.Now()
	err := mapFieldToDBOrder(m, src, dst, begin, count, stride, offset)
	m.opts.metrics.RecordTranslate("db_order", count, time.Since(start), err)
	return err
}

func mapFieldToDBOrder[S, D Number](m *Map, src []S, dst []D, begin, count, stride, offset int) error {
	if begin < 0 || count < 0 || begin > m.Size()-count {
		return &RangeError{Offset: begin, Count: count, Size: m.Size()}
	}
	if stride < 1 || offset < 0 || offset >= stride {
		return fmt.Errorf("%w: stride %d with component offset %d", ErrConfiguration, stride, offset)
	}
	if count == 0 {
		return nil
	}
	if need := offset + (count-1)*stride + 1; len(src) < need {
		return &RangeError{Offset: 0, Count: need, Size: len(src)}
	}
	if len(dst) < count {
		return &RangeError{Offset: 0, Count: count, Size: len(dst)}
	}

	s := m.freeze()
	if s.err != nil {
		return s.err
	}
	reorder, err := s.reorderMap(m)
	if err != nil {
		return err
	}

	k := offset
	for j := begin; j < begin+count; j++ {
		pos := int64(j)
		if reorder != nil {
			pos = reorder[j]
		}
		if pos < int64(begin) || pos >= int64(begin+count) {
			err := &ContractViolationError{
				Reason: fmt.Sprintf("entity %d was defined at %d, outside [%d, %d]", j+1, pos+1, begin+1, begin+count),
				Local:  int64(j + 1),
			}
			m.logger.LogContractViolation(context.Background(), err)
			return err
		}
		dst[pos-int64(begin)] = D(src[k])
		k += stride
	}
	return nil
}
