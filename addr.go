package findme

import (
	"net"
	"strings"

	"github.com/pkg/errors"
)

// Addr is the device address of a peer.
type Addr interface {
	String() string
}

// NewAddr creates an Addr from string
func NewAddr(s string) Addr {
	return addr(strings.ToLower(s))
}

// ParseAddr parses a 48-bit device address such as "11:22:33:44:55:66".
func ParseAddr(s string) (Addr, error) {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return nil, errors.Errorf("invalid device address %q", s)
	}
	return addr(hw.String()), nil
}

type addr string

func (a addr) String() string {
	return string(a)
}
