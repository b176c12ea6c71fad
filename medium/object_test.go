package medium

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type failingObjects struct {
	*MemoryObjects
	failGets bool
}

func (f *failingObjects) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGets {
		return nil, errors.New("get failed")
	}
	return f.MemoryObjects.Get(ctx, key)
}

func TestObjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjects()

	o, err := OpenObject(ctx, store, "vol", WithPartSize(4), WithFetchConcurrency(2))
	require.NoError(t, err)

	data := []byte("the quick brown fox")
	n, err := o.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, int64(len(data)), o.Len())
	assert.Equal(t, uint64(5), o.Parts())

	_, err = o.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, err := io.ReadAll(o)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, o.Close())
	_, err = o.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosed)

	// Reopen sees the persisted length and parts.
	o2, err := OpenObject(ctx, store, "vol", WithPartSize(4))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), o2.Len())

	_, err = o2.Seek(4, io.SeekStart)
	require.NoError(t, err)
	p := make([]byte, 5)
	_, err = io.ReadFull(o2, p)
	require.NoError(t, err)
	assert.Equal(t, "quick", string(p))
}

func TestObjectSparse(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjects()

	o, err := OpenObject(ctx, store, "sparse", WithPartSize(8))
	require.NoError(t, err)

	_, err = o.Seek(30, io.SeekStart)
	require.NoError(t, err)
	_, err = o.Write([]byte("xy"))
	require.NoError(t, err)
	assert.Equal(t, int64(32), o.Len())
	assert.Equal(t, uint64(1), o.Parts())

	_, err = o.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, err := io.ReadAll(o)
	require.NoError(t, err)
	want := append(bytes.Repeat([]byte{0}, 30), 'x', 'y')
	assert.Equal(t, want, got)

	// Overwrite inside an existing part keeps the rest of it.
	_, err = o.Seek(24, io.SeekStart)
	require.NoError(t, err)
	_, err = o.Write([]byte("ab"))
	require.NoError(t, err)

	part, err := store.Get(ctx, "sparse/parts/0000000003")
	require.NoError(t, err)
	assert.Equal(t, []byte("ab\x00\x00\x00\x00xy"), part)
}

func TestObjectRebuildsLength(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjects()

	o, err := OpenObject(ctx, store, "crash", WithPartSize(4))
	require.NoError(t, err)
	_, err = o.Write([]byte("abcdef"))
	require.NoError(t, err)
	// No Close: the length record is never written.

	_, err = store.Get(ctx, "crash/length")
	require.ErrorIs(t, err, ErrNotFound)

	o2, err := OpenObject(ctx, store, "crash", WithPartSize(4))
	require.NoError(t, err)
	assert.Equal(t, int64(6), o2.Len())
}

func TestObjectSeek(t *testing.T) {
	o, err := OpenObject(context.Background(), NewMemoryObjects(), "s")
	require.NoError(t, err)

	_, err = o.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, ErrNegativeSeek)
	_, err = o.Seek(0, 7)
	assert.ErrorIs(t, err, ErrInvalidWhence)

	pos, err := o.Seek(5, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)

	_, err = o.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestObjectReadError(t *testing.T) {
	ctx := context.Background()
	store := &failingObjects{MemoryObjects: NewMemoryObjects()}

	o, err := OpenObject(ctx, store, "f", WithPartSize(4))
	require.NoError(t, err)
	_, err = o.Write([]byte("abcdefgh"))
	require.NoError(t, err)
	_, err = o.Seek(0, io.SeekStart)
	require.NoError(t, err)

	store.failGets = true
	_, err = o.Read(make([]byte, 8))
	assert.ErrorContains(t, err, "get failed")
}

func TestObjectRequestRate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryObjects()

	o, err := OpenObject(ctx, store, "r", WithRequestRate(rate.Limit(1000), 10))
	require.NoError(t, err)
	_, err = o.Write([]byte("x"))
	require.NoError(t, err)

	cancel()
	_, err = o.Write([]byte("y"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemoveObject(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjects()
	require.NoError(t, store.Put(ctx, "other/length", []byte{0}))

	o, err := OpenObject(ctx, store, "gone", WithPartSize(2))
	require.NoError(t, err)
	_, err = o.Write([]byte("abcde"))
	require.NoError(t, err)
	require.NoError(t, o.Close())

	require.NoError(t, RemoveObject(ctx, store, "gone"))

	keys, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other/length"}, keys)
}
