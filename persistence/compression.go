package persistence

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compress compresses a payload with the requested algorithm.
// It returns the stored bytes and the compression type actually used:
// incompressible LZ4 input falls back to CompressionNone.
func Compress(data []byte, ct CompressionType) ([]byte, CompressionType, error) {
	if ct == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	switch ct {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, 0, err
		}
		if n == 0 {
			// Incompressible; store raw.
			return data, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil

	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, 0, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), CompressionZSTD, nil

	default:
		return nil, 0, fmt.Errorf("unsupported compression type: %v", ct)
	}
}

// Decompress restores a payload stored with the given compression type.
// rawLen is the expected uncompressed length from the file header.
func Decompress(data []byte, ct CompressionType, rawLen int) ([]byte, error) {
	switch ct {
	case CompressionNone:
		if len(data) != rawLen {
			return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrTruncated, len(data), rawLen)
		}
		return data, nil

	case CompressionLZ4:
		dst := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(data, dst)
		if err != nil {
			return nil, err
		}
		if n != rawLen {
			return nil, fmt.Errorf("lz4: decompressed %d bytes, header says %d", n, rawLen)
		}
		return dst, nil

	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		dst, err := dec.DecodeAll(data, make([]byte, 0, rawLen))
		if err != nil {
			return nil, err
		}
		if len(dst) != rawLen {
			return nil, fmt.Errorf("zstd: decompressed %d bytes, header says %d", len(dst), rawLen)
		}
		return dst, nil

	default:
		return nil, fmt.Errorf("unsupported compression type: %v", ct)
	}
}
