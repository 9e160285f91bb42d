package fileio

import (
	"sync"

	"github.com/Kargones/apk-files/internal/entity/filer"
)

var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// Default возвращает общий для процесса Manager. При первом обращении
// создаётся менеджер поверх дисковой файловой системы с корнем в рабочей директории.
// Предназначен только для точки входа; компоненты получают Manager через конструктор.
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultManager == nil {
		fs, err := filer.New(filer.WithDiskFS(""))
		if err != nil {
			panic("fileio: не удалось создать файловую систему по умолчанию: " + err.Error())
		}
		defaultManager = NewManager(filer.NewPlatformFile(fs), nil, nil, nil, WithBaseDir(fs.Root()))
	}
	return defaultManager
}

// SetDefault заменяет общий Manager и возвращает предыдущий.
func SetDefault(m *Manager) *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	prev := defaultManager
	defaultManager = m
	return prev
}
