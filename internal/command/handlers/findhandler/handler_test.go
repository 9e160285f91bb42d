package findhandler

import (
	"encoding/json"
	"path/filepath"
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

func newEnv(t *testing.T) *sharedtest.Env {
	t.Helper()
	env := sharedtest.New(t)
	env.WriteFile(t, "paks/a.pak", "a")
	env.WriteFile(t, "paks/b.PAK", "b")
	env.WriteFile(t, "paks/readme.txt", "r")
	env.WriteFile(t, "paks/dlc/c.pak", "c")
	return env
}

func newConfig() *config.Config {
	return &config.Config{InputParams: config.InputParams{
		Command:      constants.ActFind,
		OutputFormat: "json",
		FindFiles:    true,
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

func matches(t *testing.T, result map[string]any) []string {
	t.Helper()
	raw := result["data"].(map[string]any)["matches"].([]any)
	got := make([]string, 0, len(raw))
	for _, v := range raw {
		got = append(got, v.(string))
	}
	return got
}

func TestHandler_Modes(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(cfg *config.Config)
		wantMode string
		want     []string
	}{
		{
			name:     "pattern",
			setup:    func(cfg *config.Config) { cfg.Pattern = "paks/*.pak" },
			wantMode: ModePattern,
			want:     []string{"a.pak", "b.PAK"},
		},
		{
			name: "pattern with dirs",
			setup: func(cfg *config.Config) {
				cfg.Pattern = "paks/*"
				cfg.FindFiles = false
				cfg.FindDirs = true
			},
			wantMode: ModePattern,
			want:     []string{"dlc"},
		},
		{
			name: "extension",
			setup: func(cfg *config.Config) {
				cfg.Source = "paks"
				cfg.Extension = "txt"
			},
			wantMode: ModeExtension,
			want:     []string{"readme.txt"},
		},
		{
			name: "recursive",
			setup: func(cfg *config.Config) {
				cfg.Source = "paks"
				cfg.Pattern = "*.pak"
				cfg.Recursive = true
			},
			wantMode: ModeRecursive,
			want: []string{
				filepath.Join("paks", "a.pak"),
				filepath.Join("paks", "b.PAK"),
				filepath.Join("paks", "dlc", "c.pak"),
			},
		},
		{
			name:     "nothing found",
			setup:    func(cfg *config.Config) { cfg.Pattern = "paks/*.zip" },
			wantMode: ModePattern,
			want:     []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			cfg := newConfig()
			tt.setup(cfg)

			result, err := execute(t, env, cfg)
			require.NoError(t, err)
			assert.Equal(t, output.StatusSuccess, result["status"])
			assert.Equal(t, tt.wantMode, result["data"].(map[string]any)["mode"])
			assert.Equal(t, tt.want, matches(t, result))
		})
	}
}

func TestHandler_Text(t *testing.T) {
	env := newEnv(t)
	cfg := newConfig()
	cfg.OutputFormat = "text"
	cfg.Pattern = "paks/*.txt"

	var execErr error
	out := testutil.CaptureStdout(t, func() {
		execErr = (&Handler{}).Execute(env.Ctx, cfg)
	})
	require.NoError(t, execErr)
	assert.Contains(t, out, "readme.txt")
	assert.Contains(t, out, "Найдено")
}

func TestHandler_Validation(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, env, newConfig())
	assert.Equal(t, apperrors.ErrConfigValidate, apperrors.CodeOf(err))

	cfg := newConfig()
	cfg.Pattern = "*"
	cfg.FindFiles = false
	_, err = execute(t, env, cfg)
	assert.Equal(t, apperrors.ErrConfigValidate, apperrors.CodeOf(err))

	cfg = newConfig()
	cfg.Recursive = true
	_, err = execute(t, env, cfg)
	assert.Equal(t, apperrors.ErrConfigValidate, apperrors.CodeOf(err))
}
