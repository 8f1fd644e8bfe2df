package persistence

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadIndex(t *testing.T) {
	payload := bytes.Repeat([]byte("fixture"), 100)

	var buf bytes.Buffer
	n, err := WriteIndex(&buf, FileHeader{MetricCode: 'a', Dimension: 8, ItemCount: 3}, payload, CompressionNone)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, HeaderSize+len(payload), buf.Len())

	h, got, err := ReadIndex(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, uint8('a'), h.MetricCode)
	assert.Equal(t, uint32(8), h.Dimension)
	assert.Equal(t, uint64(3), h.ItemCount)
}

func TestReadIndexChecksum(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteIndex(&buf, FileHeader{}, []byte("hello fixture payload"), CompressionNone)
	require.NoError(t, err)

	data := buf.Bytes()
	data[len(data)-1] ^= 0xFF

	_, _, err = ReadIndex(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestReadHeaderErrors(t *testing.T) {
	t.Run("Truncated", func(t *testing.T) {
		_, err := ReadHeader(bytes.NewReader([]byte{1, 2, 3}))
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("BadMagic", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := WriteIndex(&buf, FileHeader{}, nil, CompressionNone)
		require.NoError(t, err)

		data := buf.Bytes()
		data[0] ^= 0xFF
		_, err = ReadHeader(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})
}

func TestSaveToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	t.Run("WriteAndOverwrite", func(t *testing.T) {
		require.NoError(t, SaveToFile(path, func(w io.Writer) error {
			_, err := w.Write([]byte("first"))
			return err
		}))
		require.NoError(t, SaveToFile(path, func(w io.Writer) error {
			_, err := w.Write([]byte("second"))
			return err
		}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("FailureLeavesTargetUntouched", func(t *testing.T) {
		err := SaveToFile(path, func(w io.Writer) error {
			_, _ = w.Write([]byte("partial"))
			return errors.New("boom")
		})
		require.Error(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temp files left behind")
	})

	t.Run("FailureCreatesNothing", func(t *testing.T) {
		fresh := filepath.Join(dir, "never.bin")
		err := SaveToFile(fresh, func(w io.Writer) error {
			return errors.New("boom")
		})
		require.Error(t, err)
		_, err = os.Stat(fresh)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]CompressionType{
		"none": CompressionNone,
		"":     CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	} {
		got, err := ParseCompression(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCompression("gzip")
	assert.Error(t, err)
}
