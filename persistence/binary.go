package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
)

// WriteIndex writes a complete index file (header + payload) to w.
//
// The caller fills the domain fields of h (MetricCode, Dimension, ItemCount,
// MaxID); magic, version, checksum, compression, and length fields are set
// here. payload is the uncompressed payload; ct selects its compression.
func WriteIndex(w io.Writer, h FileHeader, payload []byte, ct CompressionType) (int64, error) {
	stored, actual, err := Compress(payload, ct)
	if err != nil {
		return 0, err
	}

	h.Magic = MagicNumber
	h.Version = Version
	h.Compression = uint8(actual)
	h.Checksum = crc32.ChecksumIEEE(stored)
	h.PayloadLen = uint64(len(stored))
	h.RawLen = uint64(len(payload))

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return 0, err
	}
	n, err := w.Write(stored)
	if err != nil {
		return int64(HeaderSize + n), err
	}
	return int64(HeaderSize + n), nil
}

// ReadHeader reads and validates the fixed file header.
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var h FileHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrTruncated
		}
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &h, nil
}

// ReadIndex reads a complete index file, verifies the payload checksum, and
// returns the header alongside the decompressed payload.
func ReadIndex(r io.Reader) (*FileHeader, []byte, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}

	stored := make([]byte, h.PayloadLen)
	if _, err := io.ReadFull(r, stored); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, nil, ErrTruncated
		}
		return nil, nil, err
	}

	if sum := crc32.ChecksumIEEE(stored); sum != h.Checksum {
		return nil, nil, fmt.Errorf("%w: got 0x%08x, header says 0x%08x", ErrChecksum, sum, h.Checksum)
	}

	payload, err := Decompress(stored, CompressionType(h.Compression), int(h.RawLen))
	if err != nil {
		return nil, nil, err
	}
	return h, payload, nil
}

// SaveToFile writes an index file atomically.
//
// The content is written to a temp file in the same directory and renamed
// into place, so a failed save never creates or clobbers the target.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// LoadFromFile opens filename and passes a buffered reader to readFunc.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return readFunc(bufio.NewReaderSize(f, 256*1024))
}
