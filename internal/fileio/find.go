package fileio

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// matchAll - маски, совпадающие с любым именем.
var matchAll = map[string]struct{}{"": {}, "*": {}, "*.*": {}}

// braceEscaper отключает фигурные скобки и обратную косую черту doublestar:
// в масках поиска они обычные символы имени.
var braceEscaper = strings.NewReplacer(`\`, `\\`, "{", `\{`, "}", `\}`)

// matchWildcard сравнивает базовое имя с маской без учёта регистра.
// Поддерживаются *, ? и [...]. Имя, совпадающее с маской буквально, найдено
// всегда, даже если в нём есть [ или ]. Некорректная маска совпадает только буквально.
func matchWildcard(wildcard, name string) bool {
	if _, ok := matchAll[wildcard]; ok {
		return true
	}
	if strings.EqualFold(wildcard, name) {
		return true
	}
	matched, err := doublestar.Match(braceEscaper.Replace(strings.ToLower(wildcard)), strings.ToLower(name))
	return err == nil && matched
}

// splitPattern делит маску поиска на директорию и маску имени.
func splitPattern(pattern string) (dir, wildcard string) {
	pattern = filepath.FromSlash(pattern)
	if strings.HasSuffix(pattern, string(filepath.Separator)) {
		return filepath.Clean(pattern), "*"
	}
	return filepath.Dir(pattern), filepath.Base(pattern)
}

// FindFiles возвращает базовые имена записей директории, совпавших с маской
// в последнем элементе pattern. files и dirs выбирают виды записей.
// Отсутствующая директория даёт пустой результат.
func (m *Manager) FindFiles(pattern string, files, dirs bool) []string {
	dir, wildcard := splitPattern(pattern)

	var found []string
	err := m.platform.IterateDirectory(dir, func(path string, isDir bool) bool {
		if (isDir && !dirs) || (!isDir && !files) {
			return true
		}
		name := filepath.Base(path)
		if matchWildcard(wildcard, name) {
			found = append(found, name)
		}
		return true
	})
	if err != nil {
		m.logger.Debug("не удалось прочитать директорию", "path", dir, "error", err.Error())
	}
	return found
}

// FindFilesByExtension возвращает имена файлов директории с расширением ext.
// Принимаются "txt", ".txt" и маски со звёздочкой; пустое расширение означает все файлы.
func (m *Manager) FindFilesByExtension(dir, ext string) []string {
	switch {
	case ext == "":
		ext = "*.*"
	case strings.Contains(ext, "*"):
	case strings.HasPrefix(ext, "."):
		ext = "*" + ext
	default:
		ext = "*." + ext
	}
	return m.FindFiles(filepath.Join(dir, ext), true, false)
}

// FindFilesRecursive ищет записи по маске в start и во всех вложенных директориях
// обходом в глубину. Пути в результате начинаются со start.
func (m *Manager) FindFilesRecursive(start, wildcard string, files, dirs bool) []string {
	var found []string
	m.findRecursive(&found, start, wildcard, files, dirs)
	return found
}

func (m *Manager) findRecursive(found *[]string, dir, wildcard string, files, dirs bool) {
	for _, name := range m.FindFiles(filepath.Join(dir, wildcard), files, dirs) {
		*found = append(*found, filepath.Join(dir, name))
	}
	for _, sub := range m.FindFiles(filepath.Join(dir, "*"), false, true) {
		m.findRecursive(found, filepath.Join(dir, sub), wildcard, files, dirs)
	}
}

// DirectoryVisitor получает путь записи и признак директории.
// Возврат false прекращает обход.
type DirectoryVisitor func(path string, isDir bool) bool

// IterateDirectory передаёт visitor записи директории без рекурсии.
func (m *Manager) IterateDirectory(dir string, visitor DirectoryVisitor) error {
	return m.platform.IterateDirectory(dir, visitor)
}

// IterateDirectoryRecursively обходит дерево директорий: записи директории
// передаются visitor до спуска во вложенные директории.
func (m *Manager) IterateDirectoryRecursively(dir string, visitor DirectoryVisitor) error {
	_, err := m.iterateRecursive(dir, visitor)
	return err
}

// iterateRecursive возвращает false, если visitor остановил обход.
func (m *Manager) iterateRecursive(dir string, visitor DirectoryVisitor) (bool, error) {
	var subdirs []string
	proceed := true
	err := m.platform.IterateDirectory(dir, func(path string, isDir bool) bool {
		if !visitor(path, isDir) {
			proceed = false
			return false
		}
		if isDir {
			subdirs = append(subdirs, path)
		}
		return true
	})
	if err != nil || !proceed {
		return proceed, err
	}

	for _, sub := range subdirs {
		ok, err := m.iterateRecursive(sub, visitor)
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}
