package att

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocateRelease(t *testing.T) {
	a := NewArena(2, 16)

	b1, ok := a.Allocate(8)
	require.True(t, ok)
	assert.Equal(t, 8, b1.Cap())
	assert.Equal(t, 0, b1.Len())

	b2, ok := a.Allocate(16)
	require.True(t, ok)

	_, ok = a.Allocate(1)
	assert.False(t, ok, "arena should be exhausted")
	assert.Equal(t, 2, a.Stats().InUse)

	require.NoError(t, b1.Release())
	b3, ok := a.Allocate(4)
	require.True(t, ok)

	require.NoError(t, b2.Release())
	require.NoError(t, b3.Release())
	assert.Equal(t, ArenaStats{Slots: 2, InUse: 0, Allocs: 3, Releases: 3}, a.Stats())
}

func TestArenaOversizedRequest(t *testing.T) {
	a := NewArena(1, 16)
	_, ok := a.Allocate(17)
	assert.False(t, ok)
	assert.Equal(t, 0, a.Stats().Allocs)
}

func TestBufferReleaseOnce(t *testing.T) {
	a := NewArena(1, 16)
	b, ok := a.Allocate(16)
	require.True(t, ok)

	require.NoError(t, b.Release())
	assert.Equal(t, ErrReleased, b.Release())
	assert.Equal(t, 1, a.Stats().Releases)
	assert.Panics(t, func() { b.Bytes() })

	// The slot went back exactly once.
	_, ok = a.Allocate(16)
	assert.True(t, ok)
	_, ok = a.Allocate(16)
	assert.False(t, ok)
}

func TestBufferAppend(t *testing.T) {
	a := NewArena(1, 8)
	b, _ := a.Allocate(5)
	defer b.Release()

	assert.True(t, b.Append([]byte{1, 2}, []byte{3}))
	assert.False(t, b.Append([]byte{4, 5, 6}), "append past capacity")
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())
	assert.Equal(t, 2, b.Available())
}

func TestBuffersDoNotOverlap(t *testing.T) {
	a := NewArena(2, 4)
	b1, _ := a.Allocate(4)
	b2, _ := a.Allocate(4)
	require.True(t, b1.Append([]byte{1, 1, 1, 1}))
	require.True(t, b2.Append([]byte{2, 2, 2, 2}))
	assert.Equal(t, []byte{1, 1, 1, 1}, b1.Bytes())
	assert.Equal(t, []byte{2, 2, 2, 2}, b2.Bytes())
}
