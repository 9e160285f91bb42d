package filer

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrNegativeOffset возвращается при позиционировании перед началом файла.
var ErrNegativeOffset = errors.New("отрицательное смещение")

// memoryNode - файл или директория. Открытые дескрипторы одного файла
// делят узел, поэтому запись через один сразу видна через другие.
type memoryNode struct {
	mu      sync.RWMutex
	data    []byte
	mode    os.FileMode
	modTime time.Time
}

func newMemoryFileNode(perm os.FileMode) *memoryNode {
	return &memoryNode{mode: perm.Perm(), modTime: time.Now()}
}

func newMemoryDir(perm os.FileMode) *memoryNode {
	return &memoryNode{mode: os.ModeDir | perm.Perm(), modTime: time.Now()}
}

func (n *memoryNode) isDir() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.mode.IsDir()
}

// readOnly: нет бита записи владельца.
func (n *memoryNode) readOnly() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.mode&ownerWrite == 0
}

func (n *memoryNode) size() int64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return int64(len(n.data))
}

func (n *memoryNode) truncate(size int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if size <= int64(len(n.data)) {
		n.data = n.data[:size]
	} else {
		n.data = append(n.data, make([]byte, size-int64(len(n.data)))...)
	}
	n.modTime = time.Now()
}

func (n *memoryNode) setPerm(mode os.FileMode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mode = n.mode.Type() | mode.Perm()
}

func (n *memoryNode) setModTime(t time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.modTime = t
}

func (n *memoryNode) info(name string) *memoryFileInfo {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return &memoryFileInfo{name: name, size: int64(len(n.data)), mode: n.mode, modTime: n.modTime}
}

// readAt копирует данные с позиции off; за концом файла возвращает io.EOF.
func (n *memoryNode) readAt(p []byte, off int64) (int, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if off >= int64(len(n.data)) {
		return 0, io.EOF
	}
	return copy(p, n.data[off:]), nil
}

// writeAt пишет p с позиции off, дополняя файл нулями до off при необходимости.
// При appendMode запись идёт в конец. Возвращает позицию после записи.
func (n *memoryNode) writeAt(p []byte, off int64, appendMode bool) int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if appendMode {
		off = int64(len(n.data))
	}
	if end := off + int64(len(p)); end > int64(len(n.data)) {
		n.data = append(n.data, make([]byte, end-int64(len(n.data)))...)
	}
	copy(n.data[off:], p)
	n.modTime = time.Now()
	return off + int64(len(p))
}

// MemoryFile - открытый дескриптор со своей позицией.
type MemoryFile struct {
	mu     sync.Mutex
	node   *memoryNode
	path   string
	flag   int
	offset int64
	closed bool
}

var _ File = (*MemoryFile)(nil)

func newMemoryFile(node *memoryNode, path string, flag int) *MemoryFile {
	return &MemoryFile{node: node, path: path, flag: flag}
}

func (f *MemoryFile) writable() bool {
	return f.flag&(os.O_WRONLY|os.O_RDWR) != 0
}

// usable проверяет, что дескриптор открыт и допускает запись, если она нужна.
// Вызывается под f.mu.
func (f *MemoryFile) usable(write bool) error {
	switch {
	case f.closed:
		return ErrFileClosed
	case write && !f.writable():
		return ErrReadOnlyFile
	case !write && f.flag&(os.O_WRONLY|os.O_RDWR) == os.O_WRONLY:
		return pathError("read", f.path, ErrUnsupportedOperation)
	}
	return nil
}

func (f *MemoryFile) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.usable(false); err != nil {
		return 0, err
	}
	n, err := f.node.readAt(p, f.offset)
	f.offset += int64(n)
	return n, err
}

func (f *MemoryFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.usable(true); err != nil {
		return 0, err
	}
	f.offset = f.node.writeAt(p, f.offset, f.flag&os.O_APPEND != 0)
	return len(p), nil
}

func (f *MemoryFile) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, ErrFileClosed
	}

	base := int64(0)
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = f.offset
	case io.SeekEnd:
		base = f.node.size()
	default:
		return 0, ErrUnsupportedOperation
	}
	if base+offset < 0 {
		return 0, ErrNegativeOffset
	}
	f.offset = base + offset
	return f.offset, nil
}

// Close идемпотентен.
func (f *MemoryFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *MemoryFile) Stat() (os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrFileClosed
	}
	return f.node.info(f.Name()), nil
}

func (f *MemoryFile) Name() string {
	return filepath.Base(f.path)
}

func (f *MemoryFile) Truncate(size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.usable(true); err != nil {
		return err
	}
	if size < 0 {
		return ErrNegativeOffset
	}
	f.node.truncate(size)
	return nil
}

// Sync для памяти ничего не делает.
func (f *MemoryFile) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFileClosed
	}
	return nil
}
