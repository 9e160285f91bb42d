package constants

import "os"

// Права доступа к директориям.
const (
	// DirPermStandard - служебные директории (owner rwx, group r-x).
	DirPermStandard os.FileMode = 0750

	// DirPermExec - директории, создаваемые менеджером файлов (owner rwx, group/other r-x).
	DirPermExec os.FileMode = 0755
)

// FilePermReadWrite - права создаваемых файлов (owner rw, group r, other r).
const FilePermReadWrite os.FileMode = 0644
