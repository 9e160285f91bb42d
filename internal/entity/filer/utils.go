package filer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathUtils предоставляет утилиты для работы с путями внутри корня файловой системы.
type PathUtils struct {
	root string
}

// NewPathUtils создает утилиты для корня root.
func NewPathUtils(root string) *PathUtils {
	return &PathUtils{root: filepath.Clean(root)}
}

// Resolve преобразует путь в абсолютный путь внутри корня.
// Относительные пути отсчитываются от корня; абсолютные должны лежать внутри него.
func (pu *PathUtils) Resolve(name string) (string, error) {
	if err := ValidatePath(name); err != nil {
		return "", err
	}

	name = filepath.FromSlash(strings.ReplaceAll(name, "\\", "/"))
	var full string
	if filepath.IsAbs(name) {
		full = filepath.Clean(name)
	} else {
		full = filepath.Join(pu.root, name)
	}

	if !pu.IsSubPath(full) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}
	return full, nil
}

// IsSubPath проверяет, что path совпадает с корнем или лежит внутри него.
func (pu *PathUtils) IsSubPath(path string) bool {
	rel, err := filepath.Rel(pu.root, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Root возвращает корень.
func (pu *PathUtils) Root() string {
	return pu.root
}
