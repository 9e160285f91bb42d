// Package signature ведёт реестр подписанных файлов: путь и SHA-1 содержимого.
// Подписанные файлы защищены от записи и удаления через fileio.Manager.
package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// HashLength - длина SHA-1 в шестнадцатеричной записи.
const HashLength = 40

// ErrInvalidHash возвращается для хэша, не являющегося SHA-1 в hex.
var ErrInvalidHash = errors.New("некорректный хэш подписи")

// Entry - запись реестра.
type Entry struct {
	Path string `yaml:"path"`
	Hash string `yaml:"hash"`
}

// Registry - потокобезопасный реестр подписанных файлов.
// Ключи хранятся как абсолютные очищенные пути в NFC.
type Registry struct {
	mu      sync.RWMutex
	baseDir string
	hashes  map[string]string
}

// NewRegistry создаёт пустой реестр. Относительные пути отсчитываются от baseDir.
func NewRegistry(baseDir string) *Registry {
	return &Registry{
		baseDir: baseDir,
		hashes:  make(map[string]string),
	}
}

// BaseDir возвращает базовую директорию реестра.
func (r *Registry) BaseDir() string {
	return r.baseDir
}

func (r *Registry) key(path string) string {
	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	return norm.NFC.String(filepath.Clean(path))
}

// relative возвращает путь ключа относительно baseDir для записи в манифест.
func (r *Registry) relative(key string) string {
	if r.baseDir == "" {
		return filepath.ToSlash(key)
	}
	rel, err := filepath.Rel(r.baseDir, key)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(key)
	}
	return filepath.ToSlash(rel)
}

// Add регистрирует файл с хэшем hash.
func (r *Registry) Add(path, hash string) error {
	hash = strings.ToLower(hash)
	if len(hash) != HashLength {
		return fmt.Errorf("%w: %s: длина %d", ErrInvalidHash, path, len(hash))
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidHash, path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hashes[r.key(path)] = hash
	return nil
}

// Remove снимает защиту с файла.
func (r *Registry) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hashes, r.key(path))
}

// Lookup возвращает хэш подписанного файла.
func (r *Registry) Lookup(path string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hash, ok := r.hashes[r.key(path)]
	return hash, ok
}

// Len возвращает число записей.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hashes)
}

// Entries возвращает записи, отсортированные по пути.
// Пути внутри baseDir возвращаются относительными.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.hashes))
	for key, hash := range r.hashes {
		entries = append(entries, Entry{Path: r.relative(key), Hash: hash})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}
