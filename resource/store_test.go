package resource

import (
	"testing"

	"github.com/poiesic/semfind/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *embed.Model {
	t.Helper()
	model, err := embed.NewModel(
		map[string]int{"alpha": 0, "beta": 1},
		[][]float32{{0.25, -1.5, 3}, {1, 2, 3}},
	)
	require.NoError(t, err)
	return model
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore("", true)
	require.NoError(t, err)
	defer store.Close()

	model := newTestModel(t)
	digest := Digest([]byte("payload-bytes"))

	require.NoError(t, store.SaveModel(digest, model))

	loaded, found, err := store.LoadModel(digest)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, model.Dim(), loaded.Dim())
	assert.Equal(t, model.Size(), loaded.Size())

	v, ok := loaded.Vector("alpha")
	require.True(t, ok)
	assert.Equal(t, []float32{0.25, -1.5, 3}, v)

	v, ok = loaded.Vector("beta")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, v)
}

func TestStoreUnknownDigest(t *testing.T) {
	store, err := OpenStore("", true)
	require.NoError(t, err)
	defer store.Close()

	_, found, err := store.LoadModel(Digest([]byte("never stored")))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("same"))
	b := Digest([]byte("same"))
	c := Digest([]byte("different"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

func TestStoreOnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenStore(dir, false)
	require.NoError(t, err)

	model := newTestModel(t)
	digest := Digest([]byte("disk-payload"))
	require.NoError(t, store.SaveModel(digest, model))
	require.NoError(t, store.Close())

	// Reopen and confirm the decoded model survived.
	store, err = OpenStore(dir, false)
	require.NoError(t, err)
	defer store.Close()

	loaded, found, err := store.LoadModel(digest)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, loaded.Dim())
}
