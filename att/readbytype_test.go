package att

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/currantlabs/findme"
)

var typeLevel = findme.BatteryLevelUUID

func newRangeFixture(t *testing.T, rr []Record, extra ...Entry) (*DB, *TypeIndex) {
	t.Helper()
	db, err := NewDB(rr)
	require.NoError(t, err)
	ee := extra
	for _, r := range rr {
		ee = append(ee, Entry{Handle: r.Handle, Type: r.Type})
	}
	return db, NewTypeIndex(ee)
}

func levels(hh ...uint16) []Record {
	var rr []Record
	for i, h := range hh {
		rr = append(rr, Record{Handle: h, Type: typeLevel, MaxLen: 4, Value: []byte{byte(i + 1)}})
	}
	return rr
}

func TestReadByTypeNoMatch(t *testing.T) {
	db, idx := newRangeFixture(t, levels(3, 5))
	arena := NewArena(1, 64)

	_, err := ReadByType(db, idx, arena, 1, 0xFFFF, findme.DeviceNameUUID, 20)
	assert.Equal(t, findme.ErrInvalidHandle, err)
	assert.Equal(t, ArenaStats{Slots: 1, InUse: 0, Allocs: 1, Releases: 1}, arena.Stats())
}

func TestReadByTypeCollectsPairs(t *testing.T) {
	db, idx := newRangeFixture(t, levels(3, 5, 7))
	arena := NewArena(1, 64)

	res, err := ReadByType(db, idx, arena, 1, 0xFFFF, typeLevel, 20)
	require.NoError(t, err)
	defer res.Buf.Release()

	assert.Equal(t, 3, res.PairLen)
	assert.Equal(t, 9, res.Used)
	assert.Equal(t, []byte{
		0x03, 0x00, 0x01,
		0x05, 0x00, 0x02,
		0x07, 0x00, 0x03,
	}, res.Buf.Bytes())
}

func TestReadByTypeRespectsRange(t *testing.T) {
	db, idx := newRangeFixture(t, levels(3, 5, 7))
	arena := NewArena(1, 64)

	res, err := ReadByType(db, idx, arena, 4, 6, typeLevel, 20)
	require.NoError(t, err)
	defer res.Buf.Release()
	assert.Equal(t, []byte{0x05, 0x00, 0x02}, res.Buf.Bytes())
}

func TestReadByTypeResponseFull(t *testing.T) {
	db, idx := newRangeFixture(t, levels(3, 5, 7, 9))
	arena := NewArena(1, 64)

	res, err := ReadByType(db, idx, arena, 1, 0xFFFF, typeLevel, 7)
	require.NoError(t, err)
	defer res.Buf.Release()

	assert.Equal(t, 3, res.PairLen)
	assert.Equal(t, 6, res.Used, "no partial pair is written")
	assert.Equal(t, 0, res.Used%res.PairLen)
}

func TestReadByTypeStopsAtWidthChange(t *testing.T) {
	rr := levels(3, 5, 9)
	rr = append(rr, Record{Handle: 7, Type: typeLevel, MaxLen: 4, Value: []byte{0xAA, 0xBB}})
	db, idx := newRangeFixture(t, rr)
	arena := NewArena(1, 64)

	res, err := ReadByType(db, idx, arena, 1, 0xFFFF, typeLevel, 64)
	require.NoError(t, err)
	defer res.Buf.Release()

	assert.Equal(t, 3, res.PairLen)
	assert.Equal(t, []byte{0x03, 0x00, 0x01, 0x05, 0x00, 0x02}, res.Buf.Bytes())
}

func TestReadByTypeUnresolvedHandle(t *testing.T) {
	// The index knows a handle the table does not.
	db, idx := newRangeFixture(t, levels(5, 7), Entry{Handle: 6, Type: typeLevel})
	arena := NewArena(1, 64)

	_, err := ReadByType(db, idx, arena, 1, 0xFFFF, typeLevel, 64)
	assert.Equal(t, &Error{Handle: 6, Code: findme.ErrInvalidHandle}, err)
	assert.Equal(t, findme.ErrInvalidHandle, Code(err))
	assert.Equal(t, ArenaStats{Slots: 1, InUse: 0, Allocs: 1, Releases: 1}, arena.Stats())
}

func TestReadByTypeFirstValueOverflows(t *testing.T) {
	db, idx := newRangeFixture(t, []Record{
		{Handle: 3, Type: findme.DeviceNameUUID, MaxLen: 14, Value: []byte("Find Me Target")},
	})
	arena := NewArena(1, 64)

	_, err := ReadByType(db, idx, arena, 1, 0xFFFF, findme.DeviceNameUUID, 10)
	assert.Equal(t, findme.ErrInvalidHandle, err)
	assert.Equal(t, 0, arena.Stats().InUse)
}

func TestReadByTypeArenaExhausted(t *testing.T) {
	db, idx := newRangeFixture(t, levels(3))
	arena := NewArena(1, 64)
	held, ok := arena.Allocate(1)
	require.True(t, ok)
	defer held.Release()

	_, err := ReadByType(db, idx, arena, 1, 0xFFFF, typeLevel, 20)
	assert.Equal(t, findme.ErrInsuffResources, err)
}

func TestReadByTypeAdvancesCursor(t *testing.T) {
	db, idx := newRangeFixture(t, levels(3, 5, 7))
	arena := NewArena(1, 64)

	var froms []uint16
	spy := IndexFunc(func(from, to uint16, typ findme.UUID) (uint16, bool) {
		froms = append(froms, from)
		return idx.FindNextHandleOfType(from, to, typ)
	})
	res, err := ReadByType(db, spy, arena, 1, 0xFFFF, typeLevel, 64)
	require.NoError(t, err)
	res.Buf.Release()
	assert.Equal(t, []uint16{1, 4, 6, 8}, froms)
}

func TestReadByTypeRepeatedHandle(t *testing.T) {
	db, _ := newRangeFixture(t, levels(3))
	arena := NewArena(1, 64)

	// A broken index that keeps answering the same handle.
	stuck := IndexFunc(func(from, to uint16, typ findme.UUID) (uint16, bool) {
		return 3, true
	})
	res, err := ReadByType(db, stuck, arena, 1, 0xFFFF, typeLevel, 10)
	require.NoError(t, err)
	defer res.Buf.Release()
	assert.Equal(t, 9, res.Used)
}

func TestReadByTypeLastHandle(t *testing.T) {
	db, idx := newRangeFixture(t, levels(0xFFFF))
	arena := NewArena(1, 64)

	res, err := ReadByType(db, idx, arena, 0xFFF0, 0xFFFF, typeLevel, 20)
	require.NoError(t, err)
	defer res.Buf.Release()
	assert.Equal(t, []byte{0xFF, 0xFF, 0x01}, res.Buf.Bytes())
}
