// Package sharedtest собирает Services поверх файловой системы в памяти для тестов обработчиков.
package sharedtest

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/entity/signature"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
	"github.com/Kargones/apk-files/internal/pkg/tracing"
)

// TraceID - фиксированный trace_id тестового контекста.
const TraceID = "0123456789abcdef0123456789abcdef"

// Env - тестовое окружение обработчика.
type Env struct {
	FS       *filer.MemoryFileSystem
	Services *shared.Services
	Ctx      context.Context
}

// New создаёт окружение с пустой файловой системой в памяти.
// Фатальные ошибки менеджера превращаются в panic.
func New(t *testing.T) *Env {
	t.Helper()

	fs := filer.NewMemoryFileSystem(filer.MemoryRoot)
	registry := signature.NewRegistry(fs.Root())
	manager := fileio.NewManager(filer.NewPlatformFile(fs), registry, logging.NewNopLogger(), metrics.NewNopCollector(),
		fileio.WithBaseDir(fs.Root()),
		fileio.WithMoveRetry(1, 0),
		fileio.WithFatalHandler(func(msg string, err error) { panic(msg + ": " + err.Error()) }),
	)
	services := &shared.Services{
		Logger:  logging.NewNopLogger(),
		Manager: manager,
		Signer:  signature.NewSigner(manager, registry),
	}

	ctx := tracing.WithTraceID(context.Background(), TraceID)
	return &Env{FS: fs, Services: services, Ctx: shared.WithServices(ctx, services)}
}

// WriteFile создаёт файл с содержимым data.
func (e *Env) WriteFile(t *testing.T, name, data string) {
	t.Helper()
	require.NoError(t, e.FS.MkdirAll(path.Dir(name), filer.DirMode))
	require.NoError(t, e.FS.WriteFile(name, []byte(data), filer.FileMode))
}

// ReadFile возвращает содержимое файла.
func (e *Env) ReadFile(t *testing.T, name string) string {
	t.Helper()
	data, err := e.FS.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}
