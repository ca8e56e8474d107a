package offline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kvMedia(t *testing.T) map[string]KeyValue {
	fileKV, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	boltKV, err := OpenBoltKV(filepath.Join(t.TempDir(), "kv.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { boltKV.Close() })

	return map[string]KeyValue{
		"memory": NewMemoryKV(),
		"file":   fileKV,
		"bolt":   boltKV,
	}
}

func TestKeyValue_Contract(t *testing.T) {
	for name, kv := range kvMedia(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set("k", "one"))
			require.NoError(t, kv.Set("k", "two"))

			v, ok, err := kv.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "two", v)

			require.NoError(t, kv.Remove("k"))
			require.NoError(t, kv.Remove("k"))

			_, ok, err = kv.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileKV_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, kv.Set("icons", "value"))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "icons", entries[0].Name())
}

func TestFileKV_RequiresDirectory(t *testing.T) {
	_, err := NewFileKV("")
	assert.Error(t, err)
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", ".", "..", "a/b", ".hidden"} {
		assert.Error(t, kv.Set(key, "x"), "key %q", key)
	}
}

func TestMemoryKV_Len(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set("a", "1"))
	require.NoError(t, kv.Set("b", "2"))
	assert.Equal(t, 2, kv.Len())
}
