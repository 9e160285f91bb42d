package deletehandler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/command/handlers/shared/sharedtest"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/apperrors"
	"github.com/Kargones/apk-files/internal/pkg/output"
	"github.com/Kargones/apk-files/internal/pkg/testutil"
)

func newConfig(src string) *config.Config {
	return &config.Config{InputParams: config.InputParams{
		Command:      constants.ActDelete,
		OutputFormat: "json",
		Source:       src,
	}}
}

func execute(t *testing.T, env *sharedtest.Env, cfg *config.Config) (map[string]any, error) {
	t.Helper()
	var execErr error
	out := testutil.CaptureStdout(t, func() {
		execErr = (&Handler{}).Execute(env.Ctx, cfg)
	})
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	return result, execErr
}

func TestHandler_Delete(t *testing.T) {
	env := sharedtest.New(t)
	env.WriteFile(t, "a.txt", "data")

	result, err := execute(t, env, newConfig("a.txt"))
	require.NoError(t, err)
	assert.Equal(t, output.StatusSuccess, result["status"])
	assert.Equal(t, true, result["data"].(map[string]any)["existed"])
	assert.False(t, env.Services.Manager.FileExists("a.txt"))
}

func TestHandler_DeleteMissing(t *testing.T) {
	env := sharedtest.New(t)

	result, err := execute(t, env, newConfig("none.txt"))
	require.NoError(t, err)
	assert.Equal(t, false, result["data"].(map[string]any)["existed"])

	cfg := newConfig("none.txt")
	cfg.RequireExists = true
	result, err = execute(t, env, cfg)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrFileNotFound, apperrors.CodeOf(err))
	assert.Equal(t, output.StatusError, result["status"])
}

func TestHandler_DeleteSigned(t *testing.T) {
	env := sharedtest.New(t)
	env.WriteFile(t, "signed.pak", "data")
	_, err := env.Services.Signer.Sign("signed.pak")
	require.NoError(t, err)

	cfg := newConfig("signed.pak")
	cfg.EvenIfReadOnly = true
	result, err := execute(t, env, cfg)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrFileProtected, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.ErrFileProtected, result["error"].(map[string]any)["code"])
	assert.True(t, env.Services.Manager.FileExists("signed.pak"))
}

func TestHandler_MissingParam(t *testing.T) {
	env := sharedtest.New(t)

	_, err := execute(t, env, newConfig(""))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrConfigValidate, apperrors.CodeOf(err))
}

func TestHandler_DryRun(t *testing.T) {
	t.Setenv(constants.EnvDryRun, "true")

	tests := []struct {
		name          string
		path          string
		requireExists bool
		wantValid     bool
	}{
		{name: "existing", path: "a.txt", wantValid: true},
		{name: "missing", path: "none.txt", wantValid: true},
		{name: "missing required", path: "none.txt", requireExists: true, wantValid: false},
		{name: "signed", path: "signed.pak", wantValid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := sharedtest.New(t)
			env.WriteFile(t, "a.txt", "data")
			env.WriteFile(t, "signed.pak", "data")
			_, err := env.Services.Signer.Sign("signed.pak")
			require.NoError(t, err)

			cfg := newConfig(tt.path)
			cfg.RequireExists = tt.requireExists
			result, err := execute(t, env, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result["plan"].(map[string]any)["validation_passed"])
			assert.True(t, env.Services.Manager.FileExists("a.txt"))
		})
	}
}
