package fileio

import (
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/entity/filer"
)

// openReader открывает Reader поверх файла с содержимым data.
func openReader(t *testing.T, data []byte, opts ...ReaderOption) (*Reader, *countingFile) {
	t.Helper()
	fs := newMemoryFS(t)
	writeFile(t, fs, "data.bin", data)

	file, err := fs.Open("data.bin")
	require.NoError(t, err)
	counting := &countingFile{File: file}
	return NewReader(counting, "data.bin", int64(len(data)), opts...), counting
}

func TestReader_SerializeSequential(t *testing.T) {
	data := pattern(5000)
	r, _ := openReader(t, data, WithReaderBufferSize(64))

	got := make([]byte, 0, len(data))
	for _, n := range []int{1, 10, 63, 64, 65, 200, 7, 4590} {
		chunk := make([]byte, n)
		require.NoError(t, r.Serialize(chunk))
		got = append(got, chunk...)
	}

	assert.Equal(t, data, got)
	assert.Equal(t, int64(len(data)), r.Tell())
	assert.NoError(t, r.Close())
}

func TestReader_SmallReadsArePrecached(t *testing.T) {
	r, file := openReader(t, pattern(256), WithReaderBufferSize(128))

	one := make([]byte, 1)
	for range 128 {
		require.NoError(t, r.Serialize(one))
	}
	// 128 однобайтовых чтений обслуживаются одним заполнением буфера.
	assert.LessOrEqual(t, file.reads, 2)
}

func TestReader_BulkReadBypassesBuffer(t *testing.T) {
	data := pattern(1000)
	r, _ := openReader(t, data, WithReaderBufferSize(100))

	head := make([]byte, 10)
	require.NoError(t, r.Serialize(head))

	bulk := make([]byte, 500)
	require.NoError(t, r.Serialize(bulk))
	assert.Equal(t, data[10:510], bulk)
	assert.Equal(t, 0, r.bufferCount)

	tail := make([]byte, 490)
	require.NoError(t, r.Serialize(tail))
	assert.Equal(t, data[510:], tail)
}

func TestReader_BufferInvariant(t *testing.T) {
	data := pattern(4096)
	r, _ := openReader(t, data, WithReaderBufferSize(97))
	rng := rand.New(rand.NewSource(42))

	for range 2000 {
		if rng.Intn(4) == 0 {
			target := rng.Int63n(int64(len(data)) + 1)
			_, err := r.Seek(target, io.SeekStart)
			require.NoError(t, err)
		} else {
			n := rng.Intn(250)
			if remaining := int64(len(data)) - r.Tell(); int64(n) > remaining {
				n = int(remaining)
			}
			pos := r.Tell()
			chunk := make([]byte, n)
			require.NoError(t, r.Serialize(chunk))
			require.Equal(t, data[pos:pos+int64(n)], chunk)
		}

		if r.bufferCount > 0 {
			require.LessOrEqual(t, r.bufferBase, r.pos)
			require.LessOrEqual(t, r.pos, r.bufferBase+int64(r.bufferCount))
		}
	}
	require.False(t, r.IsError())
}

func TestReader_SeekOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		offset int64
	}{
		{"past end", 101},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newBufferLogger()
			r, _ := openReader(t, pattern(100), WithReaderLogger(logger))

			_, err := r.Seek(40, io.SeekStart)
			require.NoError(t, err)

			pos, err := r.Seek(tt.offset, io.SeekStart)
			require.ErrorIs(t, err, ErrCorrupted)
			assert.Equal(t, int64(40), pos)
			assert.Equal(t, int64(40), r.Tell())
			assert.True(t, r.IsError())
			assert.Contains(t, logs.String(), "повреждён")
			assert.Contains(t, logs.String(), "level=ERROR")

			assert.ErrorIs(t, r.Close(), ErrCorrupted)
		})
	}
}

func TestReader_SeekToEndIsAllowed(t *testing.T) {
	r, _ := openReader(t, pattern(100))

	pos, err := r.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(100), pos)

	n, err := r.Read(make([]byte, 10))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, r.IsError())
}

func TestReader_ReadPastEndSetsError(t *testing.T) {
	r, _ := openReader(t, pattern(10))

	err := r.Serialize(make([]byte, 11))
	require.ErrorIs(t, err, ErrIO)
	assert.True(t, r.IsError())

	// Ошибка липкая: последующие операции возвращают её же.
	assert.ErrorIs(t, r.Serialize(make([]byte, 1)), ErrIO)
	_, err = r.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, ErrIO)
}

func TestReader_ProviderFailures(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		r, file := openReader(t, pattern(100))
		file.readErr = errInjected

		err := r.Serialize(make([]byte, 5))
		require.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, errInjected)
		assert.ErrorIs(t, r.Close(), ErrIO)
	})

	t.Run("seek", func(t *testing.T) {
		r, file := openReader(t, pattern(100))
		file.seekErr = errInjected

		pos, err := r.Seek(50, io.SeekStart)
		require.ErrorIs(t, err, ErrIO)
		assert.Equal(t, int64(50), pos)
		assert.Equal(t, 0, r.bufferCount)
	})

	t.Run("close", func(t *testing.T) {
		r, file := openReader(t, pattern(100))
		file.closeErr = errInjected

		assert.ErrorIs(t, r.Close(), ErrIO)
	})
}

func TestReader_ReadAdapter(t *testing.T) {
	data := pattern(3000)
	r, _ := openReader(t, data, WithReaderBufferSize(256))

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReader_CloseIsIdempotent(t *testing.T) {
	r, _ := openReader(t, pattern(10))

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Serialize(make([]byte, 1)), ErrClosed)
}

func TestReader_EmptyFile(t *testing.T) {
	r, _ := openReader(t, nil)

	assert.Equal(t, int64(0), r.TotalSize())
	require.NoError(t, r.Serialize(nil))
	assert.False(t, r.IsError())
	assert.NoError(t, r.Close())
}

func TestReader_DefaultBufferSize(t *testing.T) {
	fs := newMemoryFS(t)
	writeFile(t, fs, "x", []byte("abc"))
	file, err := fs.Open("x")
	require.NoError(t, err)

	r := NewReader(file, "x", 3, WithReaderBufferSize(0))
	assert.Len(t, r.buffer, DefaultReadBufferSize)
	assert.Equal(t, "x", r.Name())
	require.NoError(t, r.Close())
}

var _ filer.File = (*countingFile)(nil)
