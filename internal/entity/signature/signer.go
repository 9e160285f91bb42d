package signature

import (
	"crypto/sha1" //nolint:gosec // SHA-1 - формат подписей, а не защита от коллизий
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/fileio"
)

// ErrHashMismatch возвращается, если содержимое файла не совпадает с подписью.
var ErrHashMismatch = errors.New("хэш файла не совпадает с подписью")

// ErrNotSigned возвращается при проверке файла, отсутствующего в реестре.
var ErrNotSigned = errors.New("файл не подписан")

// Signer вычисляет и проверяет подписи файлов через fileio.Manager.
type Signer struct {
	manager  *fileio.Manager
	registry *Registry
}

// NewSigner создаёт Signer.
func NewSigner(manager *fileio.Manager, registry *Registry) *Signer {
	return &Signer{manager: manager, registry: registry}
}

// Registry возвращает реестр подписей.
func (s *Signer) Registry() *Registry {
	return s.registry
}

// HashFile вычисляет SHA-1 содержимого файла.
func (s *Signer) HashFile(path string) (string, error) {
	reader, err := s.manager.CreateReader(path, filer.ReadNone)
	if err != nil {
		return "", err
	}

	hasher := sha1.New() //nolint:gosec // см. импорт
	_, copyErr := io.Copy(hasher, reader)
	if err := errors.Join(copyErr, reader.Close()); err != nil {
		return "", fmt.Errorf("хэширование %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Sign вычисляет подписи файлов и добавляет их в реестр.
// Возвращает записи в порядке paths.
func (s *Signer) Sign(paths ...string) ([]Entry, error) {
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		hash, err := s.HashFile(path)
		if err != nil {
			return entries, err
		}
		if err := s.registry.Add(path, hash); err != nil {
			return entries, err
		}
		entries = append(entries, Entry{Path: path, Hash: hash})
	}
	return entries, nil
}

// Verify сверяет содержимое файла с подписью из реестра.
func (s *Signer) Verify(path string) error {
	want, ok := s.registry.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSigned, path)
	}
	got, err := s.HashFile(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s: ожидался %s, получен %s", ErrHashMismatch, path, want, got)
	}
	return nil
}

// LoadManifestFile читает манифест path и заполняет реестр.
// Отсутствующий файл манифеста оставляет реестр пустым.
func (s *Signer) LoadManifestFile(path string) error {
	if !s.manager.FileExists(path) {
		return nil
	}
	reader, err := s.manager.CreateReader(path, filer.ReadNone)
	if err != nil {
		return err
	}
	defer reader.Close() //nolint:errcheck // ошибка чтения уже возвращена ParseManifest

	manifest, err := ParseManifest(reader)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return s.registry.Load(manifest)
}

// SaveManifestFile записывает реестр в манифест path буферизованным Writer.
func (s *Signer) SaveManifestFile(path string) error {
	writer, err := s.manager.CreateWriter(path, filer.WriteNone)
	if err != nil {
		return err
	}
	writeErr := WriteManifest(writer, s.registry.Manifest())
	return errors.Join(writeErr, writer.Close())
}
