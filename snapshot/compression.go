package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the algorithm applied to the snapshot payload.
type Compression uint8

const (
	// None stores the payload as is.
	None Compression = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Compression = 1
	// Zstd uses zstd (better ratio, good for cold data).
	Zstd Compression = 2
	// Snappy uses snappy block compression.
	Snappy Compression = 3
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name, case-insensitively.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	case "snappy":
		return Snappy, nil
	default:
		return None, fmt.Errorf("snapshot: unknown compression %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...].
// CompressedSize 0 means the data is stored uncompressed.
const blockHeaderSize = 8

var errBlock = errors.New("malformed block")

// compressBlock compresses data with c. Data that does not shrink below
// 90% of its size is stored uncompressed.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var (
		compressed []byte
		err        error
	)

	switch c {
	case None:
	case LZ4:
		compressed, err = compressLZ4(data)
	case Zstd:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	case Snappy:
		compressed = snappy.Encode(nil, data)
	default:
		return nil, fmt.Errorf("snapshot: unknown compression %d", uint8(c))
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		compressed = nil
	}

	body := data
	if compressed != nil {
		body = compressed
	}

	out := make([]byte, blockHeaderSize+len(body))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], body)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	// Zero means incompressible.
	return buf[:n], nil
}

// decompressBlock reverses compressBlock. limit bounds the uncompressed size.
func decompressBlock(block []byte, c Compression, limit uint64) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block too small for header", errBlock)
	}

	rawSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])
	body := block[blockHeaderSize:]

	if uint64(rawSize) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceed limit %d", errBlock, rawSize, limit)
	}

	if compressedSize == 0 {
		if uint32(len(body)) != rawSize {
			return nil, fmt.Errorf("%w: stored size mismatch", errBlock)
		}
		return body, nil
	}
	if uint32(len(body)) != compressedSize {
		return nil, fmt.Errorf("%w: compressed size mismatch", errBlock)
	}

	var (
		out []byte
		err error
	)

	switch c {
	case LZ4:
		out = make([]byte, rawSize)
		var n int
		n, err = lz4.UncompressBlock(body, out)
		out = out[:max(n, 0)]
	case Zstd:
		dec := getZstdDecoder()
		out, err = dec.DecodeAll(body, make([]byte, 0, rawSize))
		putZstdDecoder(dec)
	case Snappy:
		var n int
		n, err = snappy.DecodedLen(body)
		if err == nil && n != int(rawSize) {
			return nil, fmt.Errorf("%w: decompressed size mismatch", errBlock)
		}
		if err == nil {
			out, err = snappy.Decode(make([]byte, rawSize), body)
		}
	default:
		return nil, fmt.Errorf("%w: compressed block with compression %s", errBlock, c)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBlock, err)
	}
	if uint32(len(out)) != rawSize {
		return nil, fmt.Errorf("%w: decompressed size mismatch", errBlock)
	}
	return out, nil
}
