package fileio

import (
	"path/filepath"
	"strings"
)

// ConvertRelativePathToFull возвращает абсолютный очищенный путь.
// Относительные пути отсчитываются от базовой директории менеджера,
// а если она не задана, от рабочей директории процесса.
func (m *Manager) ConvertRelativePathToFull(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if m.opts.baseDir != "" {
		return filepath.Join(m.opts.baseDir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// ConvertToRelativePath сокращает путь относительно директории исполняемых файлов.
//
// Поднимаясь от корневой директории приложения к корню файловой системы,
// метод ищет первого предка, с которого начинается path. Если такой найден,
// путь делается относительным к директории исполняемых файлов, иначе
// возвращается без изменений. Разделители в результате прямые.
func (m *Manager) ConvertToRelativePath(path string) string {
	result := filepath.ToSlash(path)
	if m.opts.rootDir == "" {
		return result
	}
	binaries := m.opts.binariesDir
	if binaries == "" {
		binaries = m.opts.rootDir
	}

	for root := filepath.Clean(m.opts.rootDir); ; root = filepath.Dir(root) {
		if hasPathPrefix(path, root) {
			if rel, err := filepath.Rel(filepath.Clean(binaries), filepath.Clean(path)); err == nil {
				return filepath.ToSlash(rel)
			}
			return result
		}
		if parent := filepath.Dir(root); parent == root {
			return result
		}
	}
}

// hasPathPrefix сообщает, лежит ли path внутри dir или совпадает с ней.
func hasPathPrefix(path, dir string) bool {
	path = filepath.Clean(filepath.FromSlash(path))
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
