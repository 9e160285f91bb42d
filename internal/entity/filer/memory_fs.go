package filer

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryFileSystem хранит дерево файлов в памяти. Используется в тестах
// и там, где диск не нужен. Директории и файлы лежат в одной таблице
// по абсолютному очищенному пути.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	nodes map[string]*memoryNode
	paths *PathUtils
}

var _ FileSystem = (*MemoryFileSystem)(nil)

// NewMemoryFileSystem создаёт пустую файловую систему с корнем root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	paths := NewPathUtils(root)
	return &MemoryFileSystem{
		nodes: map[string]*memoryNode{paths.Root(): newMemoryDir(DirMode)},
		paths: paths,
	}
}

func (m *MemoryFileSystem) Root() string { return m.paths.Root() }

func (m *MemoryFileSystem) resolve(op, name string) (string, error) {
	full, err := m.paths.Resolve(name)
	if err != nil {
		return "", pathError(op, name, err)
	}
	return full, nil
}

// parentIsDirLocked сообщает, что родитель path существует и является директорией.
func (m *MemoryFileSystem) parentIsDirLocked(path string) bool {
	parent, ok := m.nodes[filepath.Dir(path)]
	return ok && parent.isDir()
}

// childrenLocked возвращает прямых потомков dir.
func (m *MemoryFileSystem) childrenLocked(dir string) []string {
	var out []string
	for p := range m.nodes {
		if p != dir && filepath.Dir(p) == dir {
			out = append(out, p)
		}
	}
	return out
}

// subtreeLocked возвращает path и всё, что лежит под ним.
func (m *MemoryFileSystem) subtreeLocked(path string) []string {
	prefix := path + string(filepath.Separator)
	var out []string
	for p := range m.nodes {
		if p == path || strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func (m *MemoryFileSystem) Create(name string) (File, error) {
	return m.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, FileMode)
}

func (m *MemoryFileSystem) Open(name string) (File, error) {
	return m.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile поддерживает O_CREATE, O_EXCL, O_TRUNC и O_APPEND. Файл без бита
// записи владельца не открывается на запись и не обрезается.
func (m *MemoryFileSystem) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	const op = "open"
	path, err := m.resolve(op, name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node, exists := m.nodes[path]
	switch {
	case exists && node.isDir():
		return nil, pathError(op, name, ErrUnsupportedOperation)
	case exists && flag&(os.O_CREATE|os.O_EXCL) == os.O_CREATE|os.O_EXCL:
		return nil, pathError(op, name, fs.ErrExist)
	case !exists && flag&os.O_CREATE == 0, !exists && !m.parentIsDirLocked(path):
		return nil, pathError(op, name, fs.ErrNotExist)
	case !exists:
		node = newMemoryFileNode(perm.Perm())
		m.nodes[path] = node
	}

	file := newMemoryFile(node, path, flag)
	if !file.writable() {
		return file, nil
	}
	if exists && node.readOnly() {
		return nil, pathError(op, name, fs.ErrPermission)
	}
	if flag&os.O_TRUNC != 0 {
		node.truncate(0)
	}
	return file, nil
}

func (m *MemoryFileSystem) Mkdir(name string, perm os.FileMode) error {
	path, err := m.resolve("mkdir", name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.nodes[path]; exists {
		return pathError("mkdir", name, fs.ErrExist)
	}
	if !m.parentIsDirLocked(path) {
		return pathError("mkdir", name, fs.ErrNotExist)
	}
	m.nodes[path] = newMemoryDir(perm)
	return nil
}

// MkdirAll создаёт недостающие директории от корня вниз.
func (m *MemoryFileSystem) MkdirAll(name string, perm os.FileMode) error {
	path, err := m.resolve("mkdir", name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var missing []string
	for p := path; ; p = filepath.Dir(p) {
		node, exists := m.nodes[p]
		if exists {
			if !node.isDir() {
				return pathError("mkdir", name, ErrNotDirectory)
			}
			break
		}
		missing = append(missing, p)
		if p == filepath.Dir(p) {
			break
		}
	}
	for _, p := range slices.Backward(missing) {
		m.nodes[p] = newMemoryDir(perm)
	}
	return nil
}

// Remove удаляет файл или пустую директорию. Корень не удаляется.
func (m *MemoryFileSystem) Remove(name string) error {
	path, err := m.resolve("remove", name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node, exists := m.nodes[path]
	switch {
	case !exists:
		return pathError("remove", name, fs.ErrNotExist)
	case path == m.Root():
		return pathError("remove", name, ErrPathTraversal)
	case node.isDir() && len(m.childrenLocked(path)) > 0:
		return pathError("remove", name, ErrDirectoryNotEmpty)
	}
	delete(m.nodes, path)
	return nil
}

// RemoveAll удаляет поддерево. Отсутствующий путь ошибкой не считается.
func (m *MemoryFileSystem) RemoveAll(name string) error {
	path, err := m.resolve("removeall", name)
	if err != nil {
		return err
	}
	if path == m.Root() {
		return pathError("removeall", name, ErrPathTraversal)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.subtreeLocked(path) {
		delete(m.nodes, p)
	}
	return nil
}

// Rename заменяет существующий файл назначения. Директория переносится
// вместе с содержимым, но не на место существующего пути и не внутрь себя.
func (m *MemoryFileSystem) Rename(oldpath, newpath string) error {
	from, err := m.resolve("rename", oldpath)
	if err != nil {
		return err
	}
	to, err := m.resolve("rename", newpath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	node, exists := m.nodes[from]
	if !exists {
		return pathError("rename", oldpath, fs.ErrNotExist)
	}
	if !m.parentIsDirLocked(to) {
		return pathError("rename", newpath, fs.ErrNotExist)
	}
	target, targetExists := m.nodes[to]
	switch {
	case from == to:
		return nil
	case !node.isDir() && targetExists && target.isDir():
		return pathError("rename", newpath, fs.ErrExist)
	case node.isDir() && targetExists:
		return pathError("rename", newpath, fs.ErrExist)
	case node.isDir() && strings.HasPrefix(to, from+string(filepath.Separator)):
		return pathError("rename", newpath, ErrUnsupportedOperation)
	}

	moved := make(map[string]*memoryNode)
	for _, p := range m.subtreeLocked(from) {
		moved[to+strings.TrimPrefix(p, from)] = m.nodes[p]
		delete(m.nodes, p)
	}
	for p, n := range moved {
		m.nodes[p] = n
	}
	return nil
}

// ReadDir возвращает записи, отсортированные по имени.
func (m *MemoryFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	path, err := m.resolve("readdir", name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	node, exists := m.nodes[path]
	if !exists {
		return nil, pathError("readdir", name, fs.ErrNotExist)
	}
	if !node.isDir() {
		return nil, pathError("readdir", name, ErrNotDirectory)
	}

	children := m.childrenLocked(path)
	slices.Sort(children)
	entries := make([]os.DirEntry, 0, len(children))
	for _, p := range children {
		entries = append(entries, m.nodes[p].info(filepath.Base(p)))
	}
	return entries, nil
}

func (m *MemoryFileSystem) ReadFile(name string) ([]byte, error) {
	f, err := m.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // закрытие файла в памяти не падает
	return io.ReadAll(f)
}

func (m *MemoryFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	f, err := m.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // закрытие файла в памяти не падает
	_, err = f.Write(data)
	return err
}

func (m *MemoryFileSystem) Stat(name string) (os.FileInfo, error) {
	node, path, err := m.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return node.info(filepath.Base(path)), nil
}

func (m *MemoryFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Chmod меняет только биты доступа, тип узла сохраняется.
func (m *MemoryFileSystem) Chmod(name string, mode os.FileMode) error {
	node, _, err := m.lookup("chmod", name)
	if err != nil {
		return err
	}
	node.setPerm(mode)
	return nil
}

// Chtimes меняет время модификации; время доступа не хранится.
func (m *MemoryFileSystem) Chtimes(name string, _, mtime time.Time) error {
	node, _, err := m.lookup("chtimes", name)
	if err != nil {
		return err
	}
	node.setModTime(mtime)
	return nil
}

func (m *MemoryFileSystem) lookup(op, name string) (*memoryNode, string, error) {
	path, err := m.resolve(op, name)
	if err != nil {
		return nil, "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, exists := m.nodes[path]
	if !exists {
		return nil, "", pathError(op, name, fs.ErrNotExist)
	}
	return node, path, nil
}

// memoryFileInfo реализует os.FileInfo и os.DirEntry.
type memoryFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (fi *memoryFileInfo) Name() string               { return fi.name }
func (fi *memoryFileInfo) Size() int64                { return fi.size }
func (fi *memoryFileInfo) Mode() os.FileMode          { return fi.mode }
func (fi *memoryFileInfo) ModTime() time.Time         { return fi.modTime }
func (fi *memoryFileInfo) IsDir() bool                { return fi.mode.IsDir() }
func (fi *memoryFileInfo) Sys() any                   { return nil }
func (fi *memoryFileInfo) Type() os.FileMode          { return fi.mode.Type() }
func (fi *memoryFileInfo) Info() (os.FileInfo, error) { return fi, nil }
