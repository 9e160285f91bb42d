// Package filer предоставляет низкоуровневый файловый провайдер: абстракцию над
// файловой системой (диск или память) и набор примитивов PlatformFile, поверх
// которых работает буферизованный ввод-вывод и менеджер файлов.
package filer

import (
	"io"
	"os"
	"time"
)

// FileSystem определяет контракт для всех файловых операций бэкенда.
// Пути задаются относительно корня файловой системы либо абсолютными путями
// внутри этого корня.
type FileSystem interface {
	// Mkdir создает одну директорию. Родитель должен существовать.
	Mkdir(name string, perm os.FileMode) error

	// MkdirAll создает директорию вместе со всеми недостающими родителями.
	MkdirAll(path string, perm os.FileMode) error

	// Remove удаляет файл или пустую директорию.
	Remove(name string) error

	// RemoveAll удаляет path и все его содержимое.
	RemoveAll(path string) error

	// ReadDir возвращает записи директории, отсортированные по имени.
	ReadDir(dirname string) ([]os.DirEntry, error)

	// Create создает или обрезает файл.
	Create(name string) (File, error)

	// Open открывает файл только для чтения.
	Open(name string) (File, error)

	// OpenFile является обобщенной функцией открытия с флагами os.O_*.
	OpenFile(name string, flag int, perm os.FileMode) (File, error)

	// Rename переименовывает (перемещает) oldpath в newpath.
	Rename(oldpath, newpath string) error

	// ReadFile читает файл целиком.
	ReadFile(filename string) ([]byte, error)

	// WriteFile записывает данные в файл, создавая его при необходимости.
	WriteFile(filename string, data []byte, perm os.FileMode) error

	// Stat возвращает FileInfo для файла или директории.
	Stat(name string) (os.FileInfo, error)

	// IsNotExist сообщает, означает ли ошибка отсутствие файла.
	IsNotExist(err error) bool

	// Chmod изменяет режим файла.
	Chmod(name string, mode os.FileMode) error

	// Chtimes изменяет время доступа и модификации файла.
	Chtimes(name string, atime, mtime time.Time) error

	// Root возвращает корневой путь файловой системы.
	Root() string
}

// File представляет открытый файловый дескриптор.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	io.Seeker

	// Name возвращает имя файла.
	Name() string

	// Stat возвращает FileInfo, описывающий файл.
	Stat() (os.FileInfo, error)

	// Sync фиксирует содержимое файла в стабильном хранилище.
	Sync() error

	// Truncate изменяет размер файла.
	Truncate(size int64) error
}
