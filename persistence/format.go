// Package persistence provides the binary file format for fixture indexes.
//
// Every index file starts with a fixed 64-byte little-endian header followed
// by a single payload section. The payload may be block-compressed; the
// compression type, payload lengths, and a CRC32 checksum are recorded in the
// header so a load can be validated before any index state is rebuilt.
package persistence

import (
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies annfix index files (ASCII: "ANFX").
	MagicNumber = 0x414E4658
	// Version is the current file format version.
	Version = 0x00010000

	// HeaderSize is the fixed size of FileHeader on disk.
	HeaderSize = 64
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported format version")
	ErrChecksum       = errors.New("payload checksum mismatch")
	ErrTruncated      = errors.New("truncated index file")
)

// CompressionType defines the payload compression algorithm.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name as used on the command line.
func ParseCompression(s string) (CompressionType, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, lz4 or zstd)", s)
	}
}

// FileHeader is the 64-byte header at the start of every index file.
type FileHeader struct {
	Magic       uint32  // 0x414E4658 ("ANFX")
	Version     uint32  // File format version
	MetricCode  uint8   // 'a'=angular, 'e'=euclidean
	Compression uint8   // CompressionType of the payload
	Padding1    [2]byte //
	Dimension   uint32  // Vector dimensionality
	ItemCount   uint64  // Number of populated items
	MaxID       uint32  // Highest populated item ID (undefined if ItemCount==0)
	Checksum    uint32  // CRC32 (IEEE) of the stored payload bytes
	PayloadLen  uint64  // Stored (possibly compressed) payload length
	RawLen      uint64  // Uncompressed payload length
	Reserved    [16]byte
}

// Validate checks magic and version.
func (h *FileHeader) Validate() error {
	if h.Magic != MagicNumber {
		return ErrInvalidMagic
	}
	if h.Version != Version {
		return fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, h.Version)
	}
	return nil
}
