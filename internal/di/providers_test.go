package di

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
	"github.com/Kargones/apk-files/internal/pkg/output"
)

// sha1("abc")
const abcHash = "a9993e364706816aba3e25717850c26c9cd0d89d"

func fileIOConfig(root string) *config.FileIOConfig {
	return &config.FileIOConfig{
		Root:              root,
		ReadBufferSize:    16,
		WriteBufferSize:   16,
		CopyChunkSize:     64,
		MoveRetryCount:    2,
		RetryDelay:        time.Millisecond,
		SignatureManifest: constants.DefaultSignatureManifest,
	}
}

func TestProvideLogger(t *testing.T) {
	assert.NotNil(t, ProvideLogger(nil))
	assert.NotNil(t, ProvideLogger(&config.Config{}))
	assert.NotNil(t, ProvideLogger(&config.Config{
		LoggingConfig: &config.LoggingConfig{Level: "debug", Format: "json"},
	}))
}

func TestProvideOutputWriter(t *testing.T) {
	t.Setenv(constants.EnvOutputFormat, "")

	tests := []struct {
		name string
		cfg  *config.Config
		env  string
		want output.Writer
	}{
		{name: "nil config", want: &output.TextWriter{}},
		{name: "config json", cfg: &config.Config{InputParams: config.InputParams{OutputFormat: "json"}}, want: &output.JSONWriter{}},
		{name: "env json", env: "json", want: &output.JSONWriter{}},
		{name: "config wins", cfg: &config.Config{InputParams: config.InputParams{OutputFormat: "text"}}, env: "json", want: &output.TextWriter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(constants.EnvOutputFormat, tt.env)
			assert.IsType(t, tt.want, ProvideOutputWriter(tt.cfg))
		})
	}
}

func TestProvideTraceID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{32}$`)
	first, second := ProvideTraceID(), ProvideTraceID()
	assert.Regexp(t, pattern, first)
	assert.NotEqual(t, first, second)
}

func TestProvideMetricsCollector(t *testing.T) {
	logger := logging.NewNopLogger()

	assert.IsType(t, &metrics.NopCollector{}, ProvideMetricsCollector(nil, logger))
	assert.IsType(t, &metrics.NopCollector{}, ProvideMetricsCollector(&config.Config{}, logger))
	assert.IsType(t, &metrics.NopCollector{}, ProvideMetricsCollector(&config.Config{
		MetricsConfig: &config.MetricsConfig{Enabled: false},
	}, logger))
}

func TestProvideTracerProvider_Disabled(t *testing.T) {
	logger := logging.NewNopLogger()

	for _, cfg := range []*config.Config{nil, {}, {TracingConfig: &config.TracingConfig{}}} {
		shutdown := ProvideTracerProvider(cfg, logger)
		require.NotNil(t, shutdown)
		assert.NoError(t, shutdown(context.Background()))
	}
}

func TestProvideFileSystem(t *testing.T) {
	root := t.TempDir()

	fs, err := ProvideFileSystem(&config.Config{FileIOConfig: fileIOConfig(root)})
	require.NoError(t, err)
	assert.Equal(t, root, fs.Root())

	wd, err := os.Getwd()
	require.NoError(t, err)
	fs, err = ProvideFileSystem(nil)
	require.NoError(t, err)
	assert.Equal(t, wd, fs.Root())

	_, err = ProvideFileSystem(&config.Config{FileIOConfig: fileIOConfig("bad\x00root")})
	assert.ErrorIs(t, err, filer.ErrInvalidConfig)
}

func TestProvideSigner_LoadsManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "base.pak"), []byte("abc"), 0o600))
	manifest := "version: 1\nalgorithm: sha1\nfiles:\n  - path: base.pak\n    hash: " + abcHash + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, constants.DefaultSignatureManifest), []byte(manifest), 0o600))

	app, err := InitializeApp(&config.Config{FileIOConfig: fileIOConfig(root)})
	require.NoError(t, err)

	assert.Equal(t, 1, app.SignatureRegistry.Len())
	require.NoError(t, app.Signer.Verify("base.pak"))
	assert.ErrorIs(t, app.FileManager.Delete("base.pak", fileio.DeleteOptions{}), fileio.ErrProtected)
}

func TestProvideSigner_InvalidManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "custom.yaml"), []byte("version: 7\n"), 0o600))
	cfg := fileIOConfig(root)
	cfg.SignatureManifest = "custom.yaml"

	_, err := InitializeApp(&config.Config{FileIOConfig: cfg})
	assert.Error(t, err)
}

func TestInitializeApp(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{
		InputParams:  config.InputParams{Command: constants.ActCopy, OutputFormat: "json"},
		FileIOConfig: fileIOConfig(root),
		LoggingConfig: &config.LoggingConfig{
			Level:  "debug",
			Format: "text",
		},
	}

	app, err := InitializeApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.Same(t, cfg, app.Config)
	assert.NotNil(t, app.Logger)
	assert.IsType(t, &output.JSONWriter{}, app.OutputWriter)
	assert.Len(t, app.TraceID, 32)
	assert.NotNil(t, app.MetricsCollector)
	assert.NotNil(t, app.TracerShutdown)
	assert.Equal(t, root, app.FileSystem.Root())
	assert.NotNil(t, app.PlatformFile)
	assert.Equal(t, root, app.SignatureRegistry.BaseDir())
	assert.NotNil(t, app.Signer)

	// Менеджер работает внутри корня файловой системы.
	w, err := app.FileManager.CreateWriter("sub/file.txt", filer.WriteNone)
	require.NoError(t, err)
	require.NoError(t, w.Serialize([]byte("data")))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(root, "sub", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
	assert.Equal(t, filepath.Join(root, "sub", "file.txt"), app.FileManager.ConvertRelativePathToFull("sub/file.txt"))
}

func TestInitializeApp_DistinctTraceIDs(t *testing.T) {
	cfg := &config.Config{FileIOConfig: fileIOConfig(t.TempDir())}

	first, err := InitializeApp(cfg)
	require.NoError(t, err)
	second, err := InitializeApp(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, first.TraceID, second.TraceID)
}
