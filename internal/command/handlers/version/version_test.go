package version

import (
	"context"
	"encoding/json"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/output"
	"github.com/Kargones/apk-files/internal/pkg/testutil"
	"github.com/Kargones/apk-files/internal/pkg/tracing"
)

func TestMain(m *testing.M) {
	if err := RegisterCmd(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestVersionHandler_Name(t *testing.T) {
	h := &VersionHandler{}
	assert.Equal(t, constants.ActVersion, h.Name())
	assert.NotEmpty(t, h.Description())
}

func TestVersionHandler_Execute_JSONOutput(t *testing.T) {
	t.Setenv(constants.EnvOutputFormat, "json")

	traceID := tracing.GenerateTraceID()
	ctx := tracing.WithTraceID(context.Background(), traceID)

	var execErr error
	out := testutil.CaptureStdout(t, func() {
		execErr = (&VersionHandler{}).Execute(ctx, nil)
	})
	require.NoError(t, execErr)

	var result output.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result), "stdout должен содержать валидный JSON")
	assert.Equal(t, output.StatusSuccess, result.Status)
	assert.Equal(t, constants.ActVersion, result.Command)

	dataMap := result.Data.(map[string]any)
	assert.NotEmpty(t, dataMap["version"])
	assert.Equal(t, runtime.Version(), dataMap["go_version"])
	assert.Equal(t, constants.APIVersion, dataMap["api_version"])
	assert.Contains(t, dataMap["commands"], constants.ActVersion)

	require.NotNil(t, result.Metadata)
	assert.Equal(t, traceID, result.Metadata.TraceID)
	assert.Equal(t, constants.APIVersion, result.Metadata.APIVersion)
}

func TestVersionHandler_Execute_TextOutput(t *testing.T) {
	t.Setenv(constants.EnvOutputFormat, "text")

	var execErr error
	out := testutil.CaptureStdout(t, func() {
		execErr = (&VersionHandler{}).Execute(context.Background(), nil)
	})
	require.NoError(t, execErr)

	assert.Contains(t, out, constants.AppName+" version")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, "Commit:")
	assert.NotContains(t, out, "trace_id")
}

func TestVersionHandler_Registration(t *testing.T) {
	_, ok := command.Get(constants.ActVersion)
	assert.True(t, ok)
	assert.Contains(t, buildVersionData("", "").Commands, constants.ActVersion)
}

func TestBuildVersionData_Fallback(t *testing.T) {
	data := buildVersionData("", "")
	assert.Equal(t, "dev", data.Version)
	assert.Equal(t, "unknown", data.Commit)

	data = buildVersionData("1.0.0", "abc1234")
	assert.Equal(t, "1.0.0", data.Version)
	assert.Equal(t, "abc1234", data.Commit)
	assert.Equal(t, runtime.Version(), data.GoVersion)
}

func TestVersionData_WriteText(t *testing.T) {
	data := &VersionData{
		Version:    "1.2.3",
		GoVersion:  "go1.25.1",
		Commit:     "abc1234",
		APIVersion: "v1",
	}

	var buf strings.Builder
	require.NoError(t, data.writeText(&buf))

	out := buf.String()
	assert.Contains(t, out, constants.AppName+" version 1.2.3")
	assert.Contains(t, out, "Go:     go1.25.1")
	assert.Contains(t, out, "Commit: abc1234")
	assert.Contains(t, out, "API:    v1")
}
