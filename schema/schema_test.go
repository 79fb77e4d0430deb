package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/currantlabs/findme"
	"github.com/currantlabs/findme/att"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, "Find Me Target", s.Name)
	assert.Equal(t, 512, s.MTU)
	assert.Equal(t, uint16(0x000C), s.AlertLevel)
	assert.Len(t, s.Entries(), 12)

	rr := s.Records()
	require.Len(t, rr, 5)
	assert.Equal(t, att.Record{Handle: 0x0003, Type: findme.DeviceNameUUID, MaxLen: 14, Value: []byte("Find Me Target")}, rr[0])
	assert.Equal(t, att.Record{Handle: 0x000C, Type: findme.AlertLevelUUID, MaxLen: 1, Value: []byte{0x00}}, rr[4])

	_, err := att.NewDB(rr)
	assert.NoError(t, err)
}

func TestDefaultDeclarationsAreIndexed(t *testing.T) {
	idx := att.NewTypeIndex(Default().Entries())
	h, ok := idx.FindNextHandleOfType(0x0001, 0xFFFF, findme.CharacteristicUUID)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0002), h)

	h, ok = idx.FindNextHandleOfType(0x000A, 0xFFFF, findme.CharacteristicUUID)
	require.True(t, ok)
	assert.Equal(t, uint16(0x000B), h)
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte(`
attributes:
  - {handle: 1, type: "2A19", value: "64"}
`))
	require.NoError(t, err)
	assert.Equal(t, 512, s.MTU)
	assert.Equal(t, Arena{Slots: 4, Size: 512}, s.Arena)
	assert.Equal(t, 1, s.Records()[0].MaxLen)
}

func TestParse128BitType(t *testing.T) {
	s, err := Parse([]byte(`
attributes:
  - {handle: 1, type: "34DA3AD1-7110-41A1-B1EF-4430F509CDE7", max_len: 4, text: "ok"}
`))
	require.NoError(t, err)
	typ := s.Records()[0].Type
	assert.Equal(t, 16, typ.Len())
	assert.Equal(t, "34DA3AD1-7110-41A1-B1EF-4430F509CDE7", typ.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "attributes: ["},
		{name: "duplicate handle", doc: `
attributes:
  - {handle: 1, type: "2A19", value: "64"}
  - {handle: 1, type: "2A19", value: "64"}
`},
		{name: "reserved handle", doc: `
attributes:
  - {handle: 0, type: "2A19", value: "64"}
`},
		{name: "bad type", doc: `
attributes:
  - {handle: 1, type: "2A1", value: "64"}
`},
		{name: "bad hex", doc: `
attributes:
  - {handle: 1, type: "2A19", value: "6G"}
`},
		{name: "value too long", doc: `
attributes:
  - {handle: 1, type: "2A19", max_len: 1, value: "6464"}
`},
		{name: "value and text", doc: `
attributes:
  - {handle: 1, type: "2A19", value: "64", text: "d"}
`},
		{name: "alert level outside table", doc: `
alert_level: 2
attributes:
  - {handle: 2, type: "2A06", value: "00", table: false}
`},
		{name: "mtu too small", doc: `
mtu: 10
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, findMe, 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Records(), s.Records())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRecordsAreCopies(t *testing.T) {
	s := Default()
	rr := s.Records()
	rr[0].Value[0] = 'X'
	assert.Equal(t, []byte("Find Me Target"), s.Records()[0].Value)
}
