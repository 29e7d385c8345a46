package credential

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver("ENVKEY")

	tests := []struct {
		name string
		tc   *TransportContext
		want string
	}{
		{name: "standalone mode uses fallback", tc: nil, want: "ENVKEY"},
		{name: "header wins", tc: FromHeader(http.Header{"X-Brandcloud-Api-Key": {"HDR"}}), want: "HDR"},
		{name: "first of repeated values", tc: FromHeader(http.Header{"X-Brandcloud-Api-Key": {"first", "second"}}), want: "first"},
		{name: "request-bound without header", tc: FromHeader(http.Header{"Accept": {"*/*"}}), want: ""},
		{name: "request-bound with nil header", tc: FromHeader(nil), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.tc))
		})
	}
}

func TestResolver_NoFallback(t *testing.T) {
	assert.Equal(t, "", NewResolver("").Resolve(nil))
}

func TestNewEntry(t *testing.T) {
	e, err := NewEntry(" Acme ", " KEY123 ")
	require.NoError(t, err)
	assert.Equal(t, "acme", e.Domain)
	assert.Equal(t, "KEY123", e.APIKey)
	assert.Positive(t, e.CreatedAt)

	_, err = NewEntry("", "k")
	assert.ErrorContains(t, err, "Domain is required")
	_, err = NewEntry("acme", "")
	assert.ErrorContains(t, err, "APIKey is required")
}

func TestEntry_Masked(t *testing.T) {
	assert.Equal(t, "****5678", Entry{APIKey: "12345678"}.Masked())
	assert.Equal(t, "***", Entry{APIKey: "abc"}.Masked())
}

func TestParseStoreMode(t *testing.T) {
	for in, want := range map[string]StoreMode{"": StoreModeAuto, "auto": StoreModeAuto, "Keyring": StoreModeKeyring, "file": StoreModeFile} {
		got, err := ParseStoreMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseStoreMode("vault")
	assert.Error(t, err)
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	got, err := s.Get("acme")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Put(&Entry{Domain: "acme", APIKey: "one"}))
	require.NoError(t, s.Put(&Entry{Domain: "globex", APIKey: "two"}))
	require.NoError(t, s.Put(&Entry{Domain: "ACME", APIKey: "three"}))

	got, err = s.Get("Acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "three", got.APIKey)

	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.Delete("acme"))
	got, err = s.Get("acme")
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err = s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "globex", list[0].Domain)

	assert.Error(t, s.Put(&Entry{Domain: "acme"}))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".credentials.json")
	s := NewFileStoreAt(path)
	exerciseStore(t, s)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStoreAt(path).Get("acme")
	assert.ErrorContains(t, err, "parse credentials")
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	s, err := NewKeyringStore()
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestNewStore_File(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := NewStore(StoreModeFile)
	require.NoError(t, err)
	fs, ok := s.(*FileStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, ".config", "brandcloud-mcp", ".credentials.json"), fs.Path())
}

func TestNewStore_AutoPrefersKeyring(t *testing.T) {
	keyring.MockInit()

	s, err := NewStore(StoreModeAuto)
	require.NoError(t, err)
	_, ok := s.(*KeyringStore)
	assert.True(t, ok)
}
