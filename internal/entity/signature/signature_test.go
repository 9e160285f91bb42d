package signature

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
)

// sha1("abc")
const abcHash = "a9993e364706816aba3e25717850c26c9cd0d89d"

func newSigner(t *testing.T) (*Signer, *fileio.Manager, filer.FileSystem) {
	t.Helper()
	fs := filer.NewMemoryFileSystem(filer.MemoryRoot)
	registry := NewRegistry(fs.Root())
	manager := fileio.NewManager(filer.NewPlatformFile(fs), registry, logging.NewNopLogger(),
		metrics.NewNopCollector(), fileio.WithBaseDir(fs.Root()))
	return NewSigner(manager, registry), manager, fs
}

func TestRegistry_AddLookup(t *testing.T) {
	r := NewRegistry("/data")

	require.NoError(t, r.Add("paks/base.pak", strings.ToUpper(abcHash)))

	for _, path := range []string{"paks/base.pak", "/data/paks/base.pak", "./paks/../paks/base.pak"} {
		hash, ok := r.Lookup(path)
		assert.True(t, ok, path)
		assert.Equal(t, abcHash, hash)
	}

	_, ok := r.Lookup("paks/other.pak")
	assert.False(t, ok)

	r.Remove("/data/paks/base.pak")
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_NormalizesUnicode(t *testing.T) {
	r := NewRegistry("/data")

	// "й" в разложенной форме (и + кратка) и в составной.
	require.NoError(t, r.Add("файл\u0438\u0306.pak", abcHash))
	_, ok := r.Lookup("файл\u0439.pak")
	assert.True(t, ok)
}

func TestRegistry_RejectsInvalidHash(t *testing.T) {
	r := NewRegistry("")

	assert.ErrorIs(t, r.Add("a", "abc"), ErrInvalidHash)
	assert.ErrorIs(t, r.Add("a", strings.Repeat("z", HashLength)), ErrInvalidHash)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Entries(t *testing.T) {
	r := NewRegistry("/data")
	require.NoError(t, r.Add("b.pak", abcHash))
	require.NoError(t, r.Add("/data/a.pak", abcHash))
	require.NoError(t, r.Add("/elsewhere/c.pak", abcHash))

	assert.Equal(t, []Entry{
		{Path: "/elsewhere/c.pak", Hash: abcHash},
		{Path: "a.pak", Hash: abcHash},
		{Path: "b.pak", Hash: abcHash},
	}, r.Entries())
}

func TestParseManifest(t *testing.T) {
	valid := `version: 1
algorithm: sha1
files:
  - path: Content/base.pak
    hash: ` + abcHash + `
`
	manifest, err := ParseManifest(strings.NewReader(valid))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, manifest.Version)
	assert.Equal(t, AlgorithmSHA1, manifest.Algorithm)
	assert.Equal(t, []Entry{{Path: "Content/base.pak", Hash: abcHash}}, manifest.Files)

	invalid := map[string]string{
		"not yaml":          "files: [",
		"wrong version":     "version: 2\nalgorithm: sha1\nfiles: []\n",
		"wrong algorithm":   "version: 1\nalgorithm: md5\nfiles: []\n",
		"missing files":     "version: 1\nalgorithm: sha1\n",
		"short hash":        "version: 1\nalgorithm: sha1\nfiles:\n  - path: a\n    hash: abc\n",
		"empty path":        "version: 1\nalgorithm: sha1\nfiles:\n  - path: ''\n    hash: " + abcHash + "\n",
		"unknown attribute": "version: 1\nalgorithm: sha1\nfiles: []\nextra: true\n",
	}
	for name, doc := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}
}

func TestManifest_RoundTrip(t *testing.T) {
	r := NewRegistry("/data")
	require.NoError(t, r.Add("b.pak", abcHash))
	require.NoError(t, r.Add("a.pak", "da39a3ee5e6b4b0d3255bfef95601890afd80709"))

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, r.Manifest()))

	manifest, err := ParseManifest(&buf)
	require.NoError(t, err)

	loaded := NewRegistry("/data")
	require.NoError(t, loaded.Load(manifest))
	assert.Equal(t, r.Entries(), loaded.Entries())
}

func TestManifest_EmptyRegistry(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, NewRegistry("").Manifest()))

	manifest, err := ParseManifest(&buf)
	require.NoError(t, err)
	assert.Empty(t, manifest.Files)
}

func TestSigner_SignAndVerify(t *testing.T) {
	signer, manager, fs := newSigner(t)
	require.NoError(t, fs.WriteFile("data.pak", []byte("abc"), filer.FileMode))

	entries, err := signer.Sign("data.pak")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: "data.pak", Hash: abcHash}}, entries)
	require.NoError(t, signer.Verify("data.pak"))

	// Подписанный файл защищён менеджером от записи и удаления.
	w, err := manager.CreateWriter("data.pak", filer.WriteNone)
	require.NoError(t, err)
	assert.IsType(t, &fileio.DummyWriter{}, w)
	assert.ErrorIs(t, manager.Delete("data.pak", fileio.DeleteOptions{}), fileio.ErrProtected)

	// Изменение в обход менеджера обнаруживается проверкой.
	require.NoError(t, fs.WriteFile("data.pak", []byte("abd"), filer.FileMode))
	assert.ErrorIs(t, signer.Verify("data.pak"), ErrHashMismatch)

	assert.ErrorIs(t, signer.Verify("unsigned.pak"), ErrNotSigned)
}

func TestSigner_HashMissingFile(t *testing.T) {
	signer, _, _ := newSigner(t)

	_, err := signer.HashFile("missing")
	assert.ErrorIs(t, err, fileio.ErrOpen)

	_, err = signer.Sign("missing")
	assert.Error(t, err)
	assert.Equal(t, 0, signer.Registry().Len())
}

func TestSigner_ManifestFile(t *testing.T) {
	signer, _, fs := newSigner(t)
	require.NoError(t, fs.WriteFile("a.pak", []byte("abc"), filer.FileMode))
	_, err := signer.Sign("a.pak")
	require.NoError(t, err)

	require.NoError(t, signer.SaveManifestFile("meta/signatures.yaml"))

	other, _, _ := newSigner(t)
	require.NoError(t, other.LoadManifestFile("missing.yaml"))
	assert.Equal(t, 0, other.Registry().Len())

	data, err := fs.ReadFile("meta/signatures.yaml")
	require.NoError(t, err)
	manifest, err := ParseManifest(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: "a.pak", Hash: abcHash}}, manifest.Files)

	require.NoError(t, signer.Registry().Load(manifest))
	require.NoError(t, signer.LoadManifestFile("meta/signatures.yaml"))
	assert.Equal(t, 1, signer.Registry().Len())
}
