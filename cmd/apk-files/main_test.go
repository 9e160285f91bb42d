package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/command/handlers"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/testutil"
)

func TestMain(m *testing.M) {
	if err := handlers.RegisterAll(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// setupEnv задаёт минимальное окружение с корнем файловой системы root.
func setupEnv(t *testing.T, root, command string) {
	t.Helper()
	t.Setenv("BR_COMMAND", command)
	t.Setenv("BR_FILEIO_ROOT", root)
	t.Setenv("BR_FILEIO_RETRY_DELAY", "0s")
	t.Setenv(constants.EnvOutputFormat, "json")
	t.Setenv(constants.EnvConfigFile, "")
	t.Setenv(constants.EnvDryRun, "")
	t.Setenv("BR_LOG_LEVEL", "error")
}

func runCaptured(t *testing.T) (int, map[string]any) {
	t.Helper()
	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run()
	})
	var result map[string]any
	if out != "" {
		require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	}
	return code, result
}

func TestRun_Version(t *testing.T) {
	setupEnv(t, t.TempDir(), constants.ActVersion)

	code, result := runCaptured(t)
	assert.Equal(t, constants.ExitOK, code)
	assert.Equal(t, constants.ActVersion, result["command"])
	assert.Len(t, result["metadata"].(map[string]any)["trace_id"], 32)
}

func TestRun_UnknownCommand(t *testing.T) {
	setupEnv(t, t.TempDir(), "no-such-command")

	code, _ := runCaptured(t)
	assert.Equal(t, constants.ExitUnknownCommand, code)
}

func TestRun_InvalidConfig(t *testing.T) {
	setupEnv(t, t.TempDir(), constants.ActVersion)
	t.Setenv(constants.EnvOutputFormat, "xml")

	code, _ := runCaptured(t)
	assert.Equal(t, constants.ExitConfig, code)
}

func TestRun_Copy(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("data"), 0o644))
	setupEnv(t, root, constants.ActCopy)
	t.Setenv("BR_SOURCE", "a.txt")
	t.Setenv("BR_DEST", "out/b.txt")

	code, result := runCaptured(t)
	assert.Equal(t, constants.ExitOK, code)
	assert.Equal(t, "success", result["status"])

	data, err := os.ReadFile(filepath.Join(root, "out", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestRun_CommandFailure(t *testing.T) {
	setupEnv(t, t.TempDir(), constants.ActDelete)
	t.Setenv("BR_SOURCE", "missing.txt")
	t.Setenv("BR_REQUIRE_EXISTS", "true")

	code, result := runCaptured(t)
	assert.Equal(t, constants.ExitCommandFailed, code)
	assert.Equal(t, "error", result["status"])
}

func TestRun_SignAndVerify(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.pak"), []byte("abc"), 0o644))

	setupEnv(t, root, constants.ActSign)
	t.Setenv("BR_SOURCE", "a.pak")
	code, _ := runCaptured(t)
	require.Equal(t, constants.ExitOK, code)
	assert.FileExists(t, filepath.Join(root, constants.DefaultSignatureManifest))

	// Новый процесс читает манифест и проверяет подпись.
	t.Setenv("BR_COMMAND", constants.ActVerify)
	t.Setenv("BR_SOURCE", "")
	code, result := runCaptured(t)
	assert.Equal(t, constants.ExitOK, code)
	assert.Len(t, result["data"].(map[string]any)["files"], 1)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.pak"), []byte("abd"), 0o644))
	code, _ = runCaptured(t)
	assert.Equal(t, constants.ExitCommandFailed, code)
}
