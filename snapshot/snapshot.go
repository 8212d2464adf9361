package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/internal/conv"
	"github.com/hupe1980/meshid/internal/hash"
)

const (
	// Magic identifies a map snapshot.
	Magic = "MIDX"
	// Version is the current format version.
	Version uint16 = 1

	// HeaderSize is the fixed size of the header preceding the payload.
	HeaderSize = 36
)

const (
	stateSequential    uint8 = 1
	stateNotSequential uint8 = 2
)

// flagRedefined marks a payload that carries the defined order after the
// forward array.
const flagRedefined uint8 = 1 << 0

// ErrCorrupt is returned for snapshots that fail validation.
var ErrCorrupt = errors.New("snapshot: corrupt")

// Header is the fixed-size snapshot header.
//
// Layout (little endian):
//
//	0  magic        [4]byte
//	4  version      uint16
//	6  compression  uint8
//	7  width        uint8
//	8  state        uint8
//	9  flags        uint8
//	10 pad          [2]byte
//	12 size         uint64
//	20 base         int64
//	28 payload len  uint32
//	32 checksum     uint32 CRC32C of bytes [0, 32) and the payload
type Header struct {
	Version     uint16
	Compression Compression
	Width       meshid.IDWidth
	Sequential  bool
	Redefined   bool
	Size        uint64
	Base        int64
	PayloadLen  uint32
	Checksum    uint32
}

func (h *Header) marshal(dst []byte) {
	copy(dst[0:4], Magic)
	binary.LittleEndian.PutUint16(dst[4:], h.Version)
	dst[6] = uint8(h.Compression)
	dst[7] = uint8(h.Width)
	dst[8] = stateNotSequential
	if h.Sequential {
		dst[8] = stateSequential
	}
	dst[9] = 0
	if h.Redefined {
		dst[9] = flagRedefined
	}
	dst[10], dst[11] = 0, 0
	binary.LittleEndian.PutUint64(dst[12:], h.Size)
	binary.LittleEndian.PutUint64(dst[20:], uint64(h.Base))
	binary.LittleEndian.PutUint32(dst[28:], h.PayloadLen)
	binary.LittleEndian.PutUint32(dst[32:], h.Checksum)
}

// ReadHeader parses and validates the header at the start of data.
func ReadHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data))
	}
	if string(data[0:4]) != Magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[0:4])
	}

	h := &Header{
		Version:     binary.LittleEndian.Uint16(data[4:]),
		Compression: Compression(data[6]),
		Width:       meshid.IDWidth(data[7]),
		Size:        binary.LittleEndian.Uint64(data[12:]),
		Base:        int64(binary.LittleEndian.Uint64(data[20:])),
		PayloadLen:  binary.LittleEndian.Uint32(data[28:]),
		Checksum:    binary.LittleEndian.Uint32(data[32:]),
	}

	if h.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}
	if h.Compression > Snappy {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, data[6])
	}
	if h.Width != meshid.Int32 && h.Width != meshid.Int64 {
		return nil, fmt.Errorf("%w: unknown id width %d", ErrCorrupt, data[7])
	}

	switch data[8] {
	case stateSequential:
		h.Sequential = true
	case stateNotSequential:
	default:
		return nil, fmt.Errorf("%w: unknown state %d", ErrCorrupt, data[8])
	}
	if data[9]&^flagRedefined != 0 {
		return nil, fmt.Errorf("%w: unknown flags %#x", ErrCorrupt, data[9])
	}
	h.Redefined = data[9]&flagRedefined != 0

	if h.Size > meshid.MaxSize {
		return nil, fmt.Errorf("%w: size %d exceeds %d", ErrCorrupt, h.Size, uint64(meshid.MaxSize))
	}
	return h, nil
}

// Encode serializes the forward array of m. Every local index must have
// been written. A redefined map also carries its defined order, so the
// decoded map resolves ids to the same local indices.
//
// The recorded sequential state is the result of a full check of the
// forward array, so it does not depend on how the map was built.
func Encode(m *meshid.Map, c Compression) ([]byte, error) {
	if !m.Covered() {
		return nil, &meshid.ContractViolationError{Reason: "snapshot of a partially written map"}
	}

	ids := m.AppendIDs(make([]int64, 0, m.Size()))

	raw := appendDeltas(make([]byte, 0, len(ids)*2), ids)
	redefined := m.Redefined()
	if redefined {
		raw = appendDeltas(raw, m.AppendDefinedIDs(make([]int64, 0, len(ids))))
	}

	block, err := compressBlock(raw, c)
	if err != nil {
		return nil, fmt.Errorf("snapshot: compress: %w", err)
	}

	payloadLen, err := conv.IntToUint32(len(block))
	if err != nil {
		return nil, fmt.Errorf("snapshot: payload: %w", err)
	}

	h := Header{
		Version:     Version,
		Compression: c,
		Width:       m.Width(),
		Sequential:  m.IsSequential(true),
		Redefined:   redefined,
		Size:        uint64(len(ids)),
		PayloadLen:  payloadLen,
	}
	if h.Sequential && len(ids) > 0 {
		h.Base = ids[0] - 1
	}

	out := make([]byte, HeaderSize+len(block))
	copy(out[HeaderSize:], block)
	h.marshal(out)

	h.Checksum = checksum(out)
	binary.LittleEndian.PutUint32(out[32:], h.Checksum)
	return out, nil
}

// Decode rebuilds a map from a snapshot. The map is constructed with opts,
// except that the recorded id width always wins.
//
// The rebuilt map is checked against the recorded sequential state and
// base.
func Decode(data []byte, opts ...meshid.Option) (*meshid.Map, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	if uint64(len(data)-HeaderSize) != uint64(h.PayloadLen) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(data)-HeaderSize, h.PayloadLen)
	}
	if got := checksum(data); got != h.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch: got %08x, want %08x", ErrCorrupt, got, h.Checksum)
	}

	arrays := uint64(1)
	if h.Redefined {
		arrays = 2
	}

	raw, err := decompressBlock(data[HeaderSize:], h.Compression, arrays*h.Size*binary.MaxVarintLen64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	// Every id takes at least one byte.
	if arrays*h.Size > uint64(len(raw)) {
		return nil, fmt.Errorf("%w: %d ids in %d bytes", ErrCorrupt, arrays*h.Size, len(raw))
	}
	size, err := conv.Uint64ToInt(h.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	ids, raw, err := readDeltas(raw, size)
	if err != nil {
		return nil, err
	}
	defined := ids
	if h.Redefined {
		if defined, raw, err = readDeltas(raw, size); err != nil {
			return nil, err
		}
	}
	if len(raw) != 0 {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", ErrCorrupt, len(raw))
	}

	m := meshid.New(append(opts, meshid.WithIDWidth(h.Width))...)
	if err := m.SetSize(size); err != nil {
		return nil, err
	}
	if err := m.SetMap(defined, 0, true); err != nil {
		return nil, err
	}
	if h.Redefined {
		if err := m.SetMap(ids, 0, false); err != nil {
			return nil, err
		}
	}

	if size > 0 && m.IsSequential(true) != h.Sequential {
		return nil, fmt.Errorf("%w: recorded sequential=%t, rebuilt map disagrees", ErrCorrupt, h.Sequential)
	}
	if h.Sequential && size > 0 && ids[0]-1 != h.Base {
		return nil, fmt.Errorf("%w: recorded base %d, rebuilt base %d", ErrCorrupt, h.Base, ids[0]-1)
	}
	return m, nil
}

func appendDeltas(dst []byte, ids []int64) []byte {
	prev := int64(0)
	for _, id := range ids {
		dst = binary.AppendVarint(dst, id-prev)
		prev = id
	}
	return dst
}

func readDeltas(raw []byte, n int) ([]int64, []byte, error) {
	ids := make([]int64, n)
	prev := int64(0)
	for i := range ids {
		delta, k := binary.Varint(raw)
		if k <= 0 {
			return nil, nil, fmt.Errorf("%w: bad varint at id %d", ErrCorrupt, i)
		}
		raw = raw[k:]
		prev += delta
		ids[i] = prev
	}
	return ids, raw, nil
}

func checksum(data []byte) uint32 {
	crc := hash.UpdateCRC32C(0, data[:32])
	return hash.UpdateCRC32C(crc, data[HeaderSize:])
}
