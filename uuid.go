package findme

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// A UUID is a BLE attribute type, stored little-endian as it appears on the air.
type UUID []byte

// UUID16 converts a uint16 (such as 0x1800) to a UUID.
func UUID16(i uint16) UUID {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, i)
	return UUID(b)
}

// Parse parses a standard-format UUID string, such
// as "1800" or "34DA3AD1-7110-41A1-B1EF-4430F509CDE7".
func Parse(s string) (UUID, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) == 4 {
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, err
		}
		return UUID(Reverse(b)), nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("UUIDs must be 16 or 128 bits: %s", err)
	}
	return UUID(Reverse(u[:])), nil
}

// MustParse parses a standard-format UUID string,
// like Parse, but panics in case of error.
func MustParse(s string) UUID {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the length of the UUID, in bytes.
// BLE UUIDs are either 2 or 16 bytes.
func (u UUID) Len() int { return len(u) }

// String hex-encodes a UUID.
func (u UUID) String() string {
	if len(u) == 16 {
		var id uuid.UUID
		copy(id[:], Reverse(u))
		return strings.ToUpper(id.String())
	}
	return fmt.Sprintf("%X", Reverse(u))
}

// Equal returns a boolean reporting whether v represent the same UUID as u.
func (u UUID) Equal(v UUID) bool { return bytes.Equal(u, v) }

// Reverse returns a reversed copy of u.
func Reverse(u []byte) []byte {
	// Special-case 16 bit UUIDS for speed.
	l := len(u)
	if l == 2 {
		return []byte{u[1], u[0]}
	}
	b := make([]byte, l)
	for i := 0; i < l; i++ {
		b[i] = u[l-i-1]
	}
	return b
}

// Name returns name of known services, characteristics, or descriptors.
func Name(u UUID) string {
	return knownUUID[strings.ToLower(u.String())]
}

// Attribute types used by the Find Me profile.
var (
	PrimaryServiceUUID             = UUID16(0x2800)
	CharacteristicUUID             = UUID16(0x2803)
	ClientCharacteristicConfigUUID = UUID16(0x2902)

	GAPUUID              = UUID16(0x1800)
	GATTUUID             = UUID16(0x1801)
	ImmediateAlertUUID   = UUID16(0x1802)
	DeviceNameUUID       = UUID16(0x2A00)
	AppearanceUUID       = UUID16(0x2A01)
	ServiceChangedUUID   = UUID16(0x2A05)
	AlertLevelUUID       = UUID16(0x2A06)
	BatteryServiceUUID   = UUID16(0x180F)
	BatteryLevelUUID     = UUID16(0x2A19)
	DeviceInfoUUID       = UUID16(0x180A)
	ManufacturerNameUUID = UUID16(0x2A29)
)

var knownUUID = map[string]string{
	"1800": "Generic Access",
	"1801": "Generic Attribute",
	"1802": "Immediate Alert",
	"1803": "Link Loss",
	"1804": "Tx Power",
	"180a": "Device Information",
	"180f": "Battery Service",

	"2800": "Primary Service",
	"2801": "Secondary Service",
	"2802": "Include",
	"2803": "Characteristic",

	"2900": "Characteristic Extended Properties",
	"2901": "Characteristic User Description",
	"2902": "Client Characteristic Configuration",

	"2a00": "Device Name",
	"2a01": "Appearance",
	"2a04": "Peripheral Preferred Connection Parameters",
	"2a05": "Service Changed",
	"2a06": "Alert Level",
	"2a07": "Tx Power Level",
	"2a19": "Battery Level",
	"2a29": "Manufacturer Name String",
}
