package att

import "github.com/currantlabs/findme"

// attr is an entry of the attribute table.
// len(v) is the current length of the value; cap(v) is its maximum length.
type attr struct {
	h   uint16
	typ findme.UUID

	v  []byte
	wh findme.WriteHandler
}

func (a *attr) maxLen() int { return cap(a.v) }

// Record describes an attribute of the table.
type Record struct {
	Handle uint16
	Type   findme.UUID
	MaxLen int
	Value  []byte
}
