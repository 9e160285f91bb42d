package signhandler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers/shared/sharedtest"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/entity/signature"
	"github.com/Kargones/apk-files/internal/pkg/apperrors"
	"github.com/Kargones/apk-files/internal/pkg/output"
	"github.com/Kargones/apk-files/internal/pkg/testutil"
)

// sha1("abc")
const abcHash = "a9993e364706816aba3e25717850c26c9cd0d89d"

func newConfig(cmd string) *config.Config {
	return &config.Config{
		InputParams:  config.InputParams{Command: cmd, OutputFormat: "json"},
		FileIOConfig: &config.FileIOConfig{SignatureManifest: "meta/signatures.yaml"},
	}
}

func execute(t *testing.T, env *sharedtest.Env, h command.Handler, cfg *config.Config) (map[string]any, error) {
	t.Helper()
	var execErr error
	out := testutil.CaptureStdout(t, func() {
		execErr = h.Execute(env.Ctx, cfg)
	})
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	return result, execErr
}

func files(result map[string]any) []any {
	return result["data"].(map[string]any)["files"].([]any)
}

func TestSign_Source(t *testing.T) {
	env := sharedtest.New(t)
	env.WriteFile(t, "paks/a.pak", "abc")

	cfg := newConfig(constants.ActSign)
	cfg.Source = "paks/a.pak"
	result, err := execute(t, env, &SignHandler{}, cfg)
	require.NoError(t, err)

	assert.Equal(t, output.StatusSuccess, result["status"])
	assert.Equal(t, "meta/signatures.yaml", result["data"].(map[string]any)["manifest"])
	require.Len(t, files(result), 1)
	assert.Equal(t, abcHash, files(result)[0].(map[string]any)["hash"])

	manifest, err := env.FS.ReadFile("meta/signatures.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(manifest), abcHash)
	assert.Contains(t, string(manifest), "paks/a.pak")
}

func TestSign_Pattern(t *testing.T) {
	env := sharedtest.New(t)
	env.WriteFile(t, "paks/a.pak", "abc")
	env.WriteFile(t, "paks/b.pak", "abd")
	env.WriteFile(t, "paks/readme.txt", "r")

	cfg := newConfig(constants.ActSign)
	cfg.Pattern = "paks/*.pak"
	result, err := execute(t, env, &SignHandler{}, cfg)
	require.NoError(t, err)
	assert.Len(t, files(result), 2)
	assert.Equal(t, 2, env.Services.Signer.Registry().Len())
}

func TestSign_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		pattern  string
		wantCode string
	}{
		{name: "no params", wantCode: apperrors.ErrConfigValidate},
		{name: "missing file", source: "none.pak", wantCode: apperrors.ErrFileOpen},
		{name: "empty pattern match", pattern: "paks/*.zip", wantCode: apperrors.ErrFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := sharedtest.New(t)
			env.WriteFile(t, "paks/a.pak", "abc")

			cfg := newConfig(constants.ActSign)
			cfg.Source = tt.source
			cfg.Pattern = tt.pattern
			result, err := execute(t, env, &SignHandler{}, cfg)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			assert.Equal(t, output.StatusError, result["status"])
			assert.False(t, env.Services.Manager.FileExists("meta/signatures.yaml"))
		})
	}
}

func TestSign_DryRun(t *testing.T) {
	t.Setenv(constants.EnvDryRun, "true")
	env := sharedtest.New(t)
	env.WriteFile(t, "paks/a.pak", "abc")

	cfg := newConfig(constants.ActSign)
	cfg.Source = "paks/a.pak"
	result, err := execute(t, env, &SignHandler{}, cfg)
	require.NoError(t, err)

	plan := result["plan"].(map[string]any)
	assert.Equal(t, true, plan["validation_passed"])
	assert.Len(t, plan["steps"], 2)
	assert.Equal(t, 0, env.Services.Signer.Registry().Len())
	assert.False(t, env.Services.Manager.FileExists("meta/signatures.yaml"))
}

func TestVerify_All(t *testing.T) {
	env := sharedtest.New(t)
	env.WriteFile(t, "a.pak", "abc")
	env.WriteFile(t, "b.pak", "abc")
	_, err := env.Services.Signer.Sign("a.pak", "b.pak")
	require.NoError(t, err)

	result, err := execute(t, env, &VerifyHandler{}, newConfig(constants.ActVerify))
	require.NoError(t, err)
	require.Len(t, files(result), 2)
	for _, f := range files(result) {
		assert.Equal(t, StatusValid, f.(map[string]any)["status"])
	}
}

func TestVerify_Mismatch(t *testing.T) {
	env := sharedtest.New(t)
	env.WriteFile(t, "a.pak", "abc")
	env.WriteFile(t, "b.pak", "abc")
	_, err := env.Services.Signer.Sign("a.pak", "b.pak")
	require.NoError(t, err)
	// Изменение в обход менеджера.
	env.WriteFile(t, "b.pak", "tampered")

	result, err := execute(t, env, &VerifyHandler{}, newConfig(constants.ActVerify))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSignatureMismatch, apperrors.CodeOf(err))
	assert.Equal(t, output.StatusError, result["status"])

	statuses := map[string]string{}
	for _, f := range files(result) {
		entry := f.(map[string]any)
		statuses[entry["path"].(string)] = entry["status"].(string)
	}
	assert.Equal(t, map[string]string{"a.pak": StatusValid, "b.pak": StatusMismatch}, statuses)
}

func TestVerify_Unsigned(t *testing.T) {
	env := sharedtest.New(t)
	env.WriteFile(t, "a.pak", "abc")

	cfg := newConfig(constants.ActVerify)
	cfg.Source = "a.pak"
	result, err := execute(t, env, &VerifyHandler{}, cfg)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSignatureMismatch, apperrors.CodeOf(err))
	assert.Equal(t, StatusUnsigned, files(result)[0].(map[string]any)["status"])
}

func TestVerifyStatus(t *testing.T) {
	assert.Equal(t, StatusMismatch, verifyStatus(signature.ErrHashMismatch))
	assert.Equal(t, StatusUnsigned, verifyStatus(signature.ErrNotSigned))
	assert.Equal(t, StatusError, verifyStatus(assert.AnError))
}
