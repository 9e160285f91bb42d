package filer

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// platforms возвращает провайдеры для обоих типов файловых систем.
func platforms(t *testing.T) map[string]*StandardPlatformFile {
	t.Helper()

	disk, err := New(WithDiskFS(t.TempDir()))
	require.NoError(t, err)
	mem, err := New(WithMemoryFS(""))
	require.NoError(t, err)

	return map[string]*StandardPlatformFile{
		"disk":   NewPlatformFile(disk),
		"memory": NewPlatformFile(mem),
	}
}

func TestPlatformFile_OpenWriteTruncateAndAppend(t *testing.T) {
	for name, p := range platforms(t) {
		t.Run(name, func(t *testing.T) {
			w, err := p.OpenWrite("f.txt", false, false)
			require.NoError(t, err)
			_, err = w.Write([]byte("first"))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			w, err = p.OpenWrite("f.txt", true, false)
			require.NoError(t, err)
			pos, err := w.Seek(0, io.SeekCurrent)
			require.NoError(t, err)
			assert.Equal(t, int64(5), pos)
			_, err = w.Write([]byte("+more"))
			require.NoError(t, err)
			require.NoError(t, w.Close())
			assert.Equal(t, int64(10), p.FileSize("f.txt"))

			w, err = p.OpenWrite("f.txt", false, true)
			require.NoError(t, err)
			require.NoError(t, w.Close())
			assert.Equal(t, int64(0), p.FileSize("f.txt"))
		})
	}
}

func TestPlatformFile_ExistenceAndSize(t *testing.T) {
	for name, p := range platforms(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.CreateDirectoryTree("d/e"))
			require.NoError(t, p.FileSystem().WriteFile("d/f", []byte("12"), FileMode))

			assert.True(t, p.FileExists("d/f"))
			assert.False(t, p.FileExists("d/e"))
			assert.True(t, p.DirectoryExists("d/e"))
			assert.False(t, p.DirectoryExists("d/f"))
			assert.Equal(t, int64(2), p.FileSize("d/f"))
			assert.Equal(t, int64(-1), p.FileSize("d/missing"))
			assert.Equal(t, int64(-1), p.FileSize("d/e"))

			_, err := p.OpenRead("d/e", false)
			assert.Error(t, err)
		})
	}
}

func TestPlatformFile_CopyMoveDelete(t *testing.T) {
	for name, p := range platforms(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.FileSystem().WriteFile("src", []byte("payload"), FileMode))

			require.NoError(t, p.CopyFile("copy", "src", ReadNone, WriteNone))
			data, err := p.FileSystem().ReadFile("copy")
			require.NoError(t, err)
			assert.Equal(t, "payload", string(data))

			require.NoError(t, p.MoveFile("moved", "copy"))
			assert.False(t, p.FileExists("copy"))
			assert.True(t, p.FileExists("moved"))

			require.NoError(t, p.DeleteFile("moved"))
			assert.False(t, p.FileExists("moved"))
			assert.Error(t, p.DeleteFile("moved"))
		})
	}
}

func TestPlatformFile_Directories(t *testing.T) {
	for name, p := range platforms(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.CreateDirectory("one"))
			require.NoError(t, p.CreateDirectory("one"), "повторное создание не ошибка")
			assert.Error(t, p.CreateDirectory("x/y"))

			require.NoError(t, p.CreateDirectoryTree("tree/a/b"))
			require.NoError(t, p.FileSystem().WriteFile("tree/a/b/f", []byte("1"), FileMode))

			assert.Error(t, p.DeleteDirectory("tree"))
			require.NoError(t, p.DeleteDirectoryRecursively("tree"))
			assert.False(t, p.DirectoryExists("tree"))
			assert.ErrorIs(t, p.DeleteDirectory("tree"), os.ErrNotExist)

			require.NoError(t, p.DeleteDirectory("one"))
		})
	}
}

func TestPlatformFile_IterateDirectory(t *testing.T) {
	for name, p := range platforms(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.CreateDirectoryTree("it/sub"))
			require.NoError(t, p.FileSystem().WriteFile("it/a", nil, FileMode))
			require.NoError(t, p.FileSystem().WriteFile("it/b", nil, FileMode))

			var visited []string
			dirs := map[string]bool{}
			err := p.IterateDirectory("it", func(path string, isDir bool) bool {
				visited = append(visited, path)
				dirs[path] = isDir
				return true
			})
			require.NoError(t, err)
			assert.Equal(t, []string{filepath.Join("it", "a"), filepath.Join("it", "b"), filepath.Join("it", "sub")}, visited)
			assert.True(t, dirs[filepath.Join("it", "sub")])

			count := 0
			err = p.IterateDirectory("it", func(string, bool) bool {
				count++
				return false
			})
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			assert.Error(t, p.IterateDirectory("missing", func(string, bool) bool { return true }))
		})
	}
}

func TestPlatformFile_AttributesAndTimes(t *testing.T) {
	for name, p := range platforms(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.FileSystem().WriteFile("f", []byte("abc"), FileMode))

			assert.False(t, p.IsReadOnly("f"))
			require.NoError(t, p.SetReadOnly("f", true))
			assert.True(t, p.IsReadOnly("f"))
			assert.True(t, p.StatData("f").IsReadOnly)
			require.NoError(t, p.SetReadOnly("f", false))
			assert.False(t, p.IsReadOnly("f"))

			ts := time.Date(2021, 5, 6, 7, 8, 9, 0, time.UTC)
			require.NoError(t, p.SetTimeStamp("f", ts))
			got, err := p.TimeStamp("f")
			require.NoError(t, err)
			assert.True(t, got.Equal(ts))

			stat := p.StatData("f")
			assert.True(t, stat.IsValid)
			assert.Equal(t, int64(3), stat.Size)
			assert.False(t, stat.IsDirectory)

			assert.False(t, p.StatData("missing").IsValid)
			_, err = p.TimeStamp("missing")
			assert.Error(t, err)
		})
	}
}
