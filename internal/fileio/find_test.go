package fileio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		wildcard string
		name     string
		want     bool
	}{
		{"", "any", true},
		{"*", "any.txt", true},
		{"*.*", "noext", true},
		{"*.TXT", "a.txt", true},
		{"a?.pak", "ab.pak", true},
		{"a?.pak", "abc.pak", false},
		{"[ab]*", "beta", true},
		{"[ab]*", "gamma", false},
		{"[", "x", false},
		{"[", "[", true},
		{"a{b}.txt", "a{b}.txt", true},
		{"a{b,c}.txt", "ab.txt", false},
		{"a{*", "a{b}", true},
		{`a\b`, `a\b`, true},
		{"report[1].txt", "report[1].txt", true},
		{"report[1].txt", "report1.txt", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchWildcard(tt.wildcard, tt.name), "%q ~ %q", tt.wildcard, tt.name)
	}
}

func findFixture(t *testing.T) *Manager {
	t.Helper()
	m, fs := setup(t)
	writeFile(t, fs, "data/a.txt", []byte("a"))
	writeFile(t, fs, "data/B.TXT", []byte("b"))
	writeFile(t, fs, "data/c.pak", []byte("c"))
	writeFile(t, fs, "data/sub/d.txt", []byte("d"))
	writeFile(t, fs, "data/sub/deep/e.txt", []byte("e"))
	return m
}

func TestManager_FindFiles(t *testing.T) {
	m := findFixture(t)

	assert.Equal(t, []string{"B.TXT", "a.txt"}, m.FindFiles("data/*.txt", true, false))
	assert.Equal(t, []string{"B.TXT", "a.txt", "c.pak"}, m.FindFiles("data/", true, false))
	assert.Equal(t, []string{"sub"}, m.FindFiles("data/*", false, true))
	assert.Equal(t, []string{"B.TXT", "a.txt", "c.pak", "sub"}, m.FindFiles("data/*", true, true))
	assert.Empty(t, m.FindFiles("missing/*", true, true))
}

func TestManager_FindFilesLiteralSpecialNames(t *testing.T) {
	m, fs := setup(t)
	writeFile(t, fs, "d/a{b}.txt", []byte("a"))
	writeFile(t, fs, "d/report[1].txt", []byte("r"))
	writeFile(t, fs, "d/ab.txt", []byte("b"))

	assert.Equal(t, []string{"a{b}.txt"}, m.FindFiles("d/a{b}.txt", true, false))
	assert.Equal(t, []string{"report[1].txt"}, m.FindFiles("d/report[1].txt", true, false))
	assert.Equal(t, []string{"a{b}.txt"}, m.FindFiles("d/*}.txt", true, false))
}

func TestManager_FindFilesByExtension(t *testing.T) {
	m := findFixture(t)

	for _, ext := range []string{"txt", ".txt", "*.txt"} {
		assert.Equal(t, []string{"B.TXT", "a.txt"}, m.FindFilesByExtension("data", ext), ext)
	}
	assert.Equal(t, []string{"B.TXT", "a.txt", "c.pak"}, m.FindFilesByExtension("data", ""))
}

func TestManager_FindFilesRecursive(t *testing.T) {
	m := findFixture(t)

	got := m.FindFilesRecursive("data", "*.txt", true, false)
	assert.Equal(t, []string{
		filepath.Join("data", "B.TXT"),
		filepath.Join("data", "a.txt"),
		filepath.Join("data", "sub", "d.txt"),
		filepath.Join("data", "sub", "deep", "e.txt"),
	}, got)

	dirs := m.FindFilesRecursive("data", "*", false, true)
	assert.Equal(t, []string{filepath.Join("data", "sub"), filepath.Join("data", "sub", "deep")}, dirs)
}

func TestManager_IterateDirectoryRecursively(t *testing.T) {
	m := findFixture(t)

	var visited []string
	require.NoError(t, m.IterateDirectoryRecursively("data/sub", func(path string, _ bool) bool {
		visited = append(visited, path)
		return true
	}))
	assert.Equal(t, []string{
		filepath.Join("data", "sub", "d.txt"),
		filepath.Join("data", "sub", "deep"),
		filepath.Join("data", "sub", "deep", "e.txt"),
	}, visited)

	count := 0
	require.NoError(t, m.IterateDirectoryRecursively("data", func(string, bool) bool {
		count++
		return count < 2
	}))
	assert.Equal(t, 2, count)

	assert.Error(t, m.IterateDirectoryRecursively("missing", func(string, bool) bool { return true }))
}
