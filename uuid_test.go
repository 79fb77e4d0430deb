package findme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want UUID
		str  string
	}{
		{in: "2A06", want: UUID{0x06, 0x2A}, str: "2A06"},
		{in: "0x1802", want: UUID{0x02, 0x18}, str: "1802"},
		{
			in: "34da3ad1-7110-41a1-b1ef-4430f509cde7",
			want: UUID{
				0xE7, 0xCD, 0x09, 0xF5, 0x30, 0x44, 0xEF, 0xB1,
				0xA1, 0x41, 0x10, 0x71, 0xD1, 0x3A, 0xDA, 0x34,
			},
			str: "34DA3AD1-7110-41A1-B1EF-4430F509CDE7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u)
			assert.Equal(t, tt.str, u.String())
		})
	}

	for _, s := range []string{"", "2A0", "XYZW", "34da3ad1-7110"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Alert Level", Name(AlertLevelUUID))
	assert.Equal(t, "Immediate Alert", Name(MustParse("1802")))
	assert.Equal(t, "", Name(UUID16(0xFFF0)))
	assert.True(t, DeviceNameUUID.Equal(UUID{0x00, 0x2A}))
}
