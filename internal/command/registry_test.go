package command

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/config"
)

type stubHandler string

func (s stubHandler) Name() string                                      { return string(s) }
func (s stubHandler) Description() string                               { return "stub " + string(s) }
func (s stubHandler) Execute(_ context.Context, _ *config.Config) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubHandler("copy")))

	got, ok := r.Get("copy")
	require.True(t, ok)
	assert.Equal(t, "copy", got.Name())

	got, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRegistry_RejectsBadHandlers(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubHandler("dup")))

	assert.ErrorIs(t, r.Register(nil), ErrNilHandler)
	assert.ErrorIs(t, r.Register(stubHandler("dup")), ErrDuplicateHandler)
	for _, name := range []string{"", "Copy", "copy_file", "copy-", "copy--file", "-copy", "1copy"} {
		assert.ErrorIs(t, r.Register(stubHandler(name)), ErrInvalidName, name)
	}
	assert.Equal(t, []string{"dup"}, r.Names())
}

func TestRegistry_SortedListing(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"verify", "copy", "mkdir", "find"} {
		require.NoError(t, r.Register(stubHandler(name)))
	}

	assert.Equal(t, []string{"copy", "find", "mkdir", "verify"}, r.Names())
	handlers := r.Handlers()
	require.Len(t, handlers, 4)
	assert.Equal(t, "copy", handlers[0].Name())
	assert.Equal(t, "verify", handlers[3].Name())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Register(stubHandler(fmt.Sprintf("cmd-%d", i))))
			_, _ = r.Get("cmd-0")
			_ = r.Names()
		}()
	}
	wg.Wait()
	assert.Len(t, r.Handlers(), 50)
}

func TestDefaultRegistry(t *testing.T) {
	require.NoError(t, Register(stubHandler("default-only")))
	_, ok := Get("default-only")
	assert.True(t, ok)
	assert.Contains(t, Names(), "default-only")
	assert.NotEmpty(t, Handlers())
}
