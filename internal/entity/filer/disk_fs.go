package filer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Kargones/apk-files/internal/constants"
)

// DiskFileSystem работает с диском через os.Root: кроме лексической проверки
// PathUtils, ядро не даёт выйти за корень и по символическим ссылкам.
type DiskFileSystem struct {
	paths *PathUtils
	root  *os.Root
}

var _ FileSystem = (*DiskFileSystem)(nil)

// NewDiskFileSystem открывает корень config.BasePath, создавая его при необходимости.
func NewDiskFileSystem(config Config) (*DiskFileSystem, error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("%w: для DiskFS нужен базовый путь", ErrInvalidConfig)
	}
	base, err := filepath.Abs(config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("базовый путь %s: %w", config.BasePath, err)
	}
	if err := os.MkdirAll(base, constants.DirPermStandard); err != nil {
		return nil, fmt.Errorf("создание базовой директории: %w", err)
	}
	root, err := os.OpenRoot(base)
	if err != nil {
		return nil, fmt.Errorf("открытие базовой директории: %w", err)
	}
	return &DiskFileSystem{paths: NewPathUtils(base), root: root}, nil
}

// rel переводит путь в относительный к корню, как того требует os.Root.
func (d *DiskFileSystem) rel(name string) (string, error) {
	full, err := d.paths.Resolve(name)
	if err != nil {
		return "", err
	}
	return filepath.Rel(d.paths.Root(), full)
}

func (d *DiskFileSystem) Root() string { return d.paths.Root() }

func (d *DiskFileSystem) Mkdir(name string, perm os.FileMode) error {
	rel, err := d.rel(name)
	if err != nil {
		return err
	}
	return d.root.Mkdir(rel, perm)
}

func (d *DiskFileSystem) MkdirAll(name string, perm os.FileMode) error {
	rel, err := d.rel(name)
	if err != nil {
		return err
	}
	return d.root.MkdirAll(rel, perm)
}

func (d *DiskFileSystem) Remove(name string) error {
	rel, err := d.rel(name)
	if err != nil {
		return err
	}
	return d.root.Remove(rel)
}

// RemoveAll не удаляет сам корень.
func (d *DiskFileSystem) RemoveAll(name string) error {
	rel, err := d.rel(name)
	if err != nil {
		return err
	}
	if rel == "." {
		return pathError("removeall", name, ErrPathTraversal)
	}
	return d.root.RemoveAll(rel)
}

// ReadDir возвращает записи, отсортированные по имени.
func (d *DiskFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	rel, err := d.rel(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(d.root.FS(), filepath.ToSlash(rel))
}

func (d *DiskFileSystem) Create(name string) (File, error) {
	return d.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, FileMode)
}

func (d *DiskFileSystem) Open(name string) (File, error) {
	return d.OpenFile(name, os.O_RDONLY, 0)
}

func (d *DiskFileSystem) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	rel, err := d.rel(name)
	if err != nil {
		return nil, err
	}
	f, err := d.root.OpenFile(rel, flag, perm)
	if err != nil {
		// Без этого nil *os.File превратился бы в ненулевой File.
		return nil, err
	}
	return f, nil
}

func (d *DiskFileSystem) Rename(oldpath, newpath string) error {
	from, err := d.rel(oldpath)
	if err != nil {
		return err
	}
	to, err := d.rel(newpath)
	if err != nil {
		return err
	}
	return d.root.Rename(from, to)
}

func (d *DiskFileSystem) ReadFile(name string) ([]byte, error) {
	rel, err := d.rel(name)
	if err != nil {
		return nil, err
	}
	return d.root.ReadFile(rel)
}

// WriteFile создаёт недостающие родительские директории.
func (d *DiskFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	rel, err := d.rel(name)
	if err != nil {
		return err
	}
	if err := d.root.MkdirAll(filepath.Dir(rel), constants.DirPermStandard); err != nil {
		return err
	}
	return d.root.WriteFile(rel, data, perm)
}

func (d *DiskFileSystem) Stat(name string) (os.FileInfo, error) {
	rel, err := d.rel(name)
	if err != nil {
		return nil, err
	}
	return d.root.Stat(rel)
}

func (d *DiskFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (d *DiskFileSystem) Chmod(name string, mode os.FileMode) error {
	rel, err := d.rel(name)
	if err != nil {
		return err
	}
	return d.root.Chmod(rel, mode)
}

func (d *DiskFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	rel, err := d.rel(name)
	if err != nil {
		return err
	}
	return d.root.Chtimes(rel, atime, mtime)
}
