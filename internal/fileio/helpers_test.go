package fileio

import (
	"bytes"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
)

var errInjected = errors.New("injected failure")

// newMemoryFS создаёт файловую систему в памяти.
func newMemoryFS(t *testing.T) *filer.MemoryFileSystem {
	t.Helper()
	return filer.NewMemoryFileSystem(filer.MemoryRoot)
}

// newTestManager создаёт Manager без пауз между повторами.
func newTestManager(platform filer.PlatformFile, signatures SignatureLookup, opts ...Option) *Manager {
	base := []Option{
		WithBaseDir(filer.MemoryRoot),
		WithSleep(func(time.Duration) {}),
		WithFatalHandler(func(msg string, err error) { panic(msg + ": " + err.Error()) }),
	}
	return NewManager(platform, signatures, logging.NewNopLogger(), metrics.NewNopCollector(), append(base, opts...)...)
}

// newBufferLogger возвращает логгер, пишущий текстовые записи в буфер.
func newBufferLogger() (logging.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	config := logging.Config{Level: logging.LevelDebug, Format: logging.FormatText}
	return logging.NewLoggerWithWriter(config, buf), buf
}

// writeFile создаёт файл с содержимым data.
func writeFile(t *testing.T, fs filer.FileSystem, name string, data []byte) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(path.Dir(name), filer.DirMode))
	require.NoError(t, fs.WriteFile(name, data, filer.FileMode))
}

// pattern возвращает n байт с неповторяющимся в пределах буфера узором.
func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + i/251)
	}
	return data
}

// countingFile оборачивает filer.File, считает вызовы и внедряет ошибки.
type countingFile struct {
	filer.File

	writes   int
	reads    int
	writeErr error
	readErr  error
	seekErr  error
	closeErr error
}

func (f *countingFile) Write(p []byte) (int, error) {
	f.writes++
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.File.Write(p)
}

func (f *countingFile) Read(p []byte) (int, error) {
	f.reads++
	if f.readErr != nil {
		return 0, f.readErr
	}
	return f.File.Read(p)
}

func (f *countingFile) Seek(offset int64, whence int) (int64, error) {
	if f.seekErr != nil {
		return 0, f.seekErr
	}
	return f.File.Seek(offset, whence)
}

func (f *countingFile) Close() error {
	err := f.File.Close()
	if f.closeErr != nil {
		return f.closeErr
	}
	return err
}

// faultyPlatform внедряет отказы перемещения и удаления поверх настоящего провайдера.
type faultyPlatform struct {
	filer.PlatformFile

	moveFailures   int
	moveCalls      int
	deleteFailures int
	deleteCalls    int
	writeErr       error
	readCloseErr   error
}

func (p *faultyPlatform) MoveFile(to, from string) error {
	p.moveCalls++
	if p.moveCalls <= p.moveFailures {
		return errInjected
	}
	return p.PlatformFile.MoveFile(to, from)
}

func (p *faultyPlatform) DeleteFile(name string) error {
	p.deleteCalls++
	if p.deleteCalls <= p.deleteFailures {
		return errInjected
	}
	return p.PlatformFile.DeleteFile(name)
}

func (p *faultyPlatform) OpenRead(name string, allowWrite bool) (filer.File, error) {
	file, err := p.PlatformFile.OpenRead(name, allowWrite)
	if err != nil || p.readCloseErr == nil {
		return file, err
	}
	return &countingFile{File: file, closeErr: p.readCloseErr}, nil
}

func (p *faultyPlatform) OpenWrite(name string, appendMode, allowRead bool) (filer.File, error) {
	file, err := p.PlatformFile.OpenWrite(name, appendMode, allowRead)
	if err != nil || p.writeErr == nil {
		return file, err
	}
	return &countingFile{File: file, writeErr: p.writeErr}, nil
}

// staticSignatures - реестр подписей для тестов.
type staticSignatures map[string]string

func (s staticSignatures) Lookup(name string) (string, bool) {
	hash, ok := s[name]
	return hash, ok
}
