// Package testutil содержит помощники для тестов обработчиков команд.
package testutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// CaptureStdout подменяет os.Stdout на время fn и возвращает всё, что
// обработчик успел напечатать: Result в JSON или текст help/version.
// Прогресс копирования пишется в stderr и сюда не попадает.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	saved := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err, "pipe для stdout")

	os.Stdout = w
	defer func() { os.Stdout = saved }()

	fn()
	require.NoError(t, w.Close())

	var out bytes.Buffer
	_, err = out.ReadFrom(r)
	require.NoError(t, err, "чтение перехваченного stdout")
	return out.String()
}
