package peripheral

import (
	"github.com/pkg/errors"

	"github.com/currantlabs/findme"
	"github.com/currantlabs/findme/indicator"
)

// An Option is a configuration function, which configures the peripheral.
type Option func(*Peripheral) error

// OptTransport sets the link layer that receives advertising commands.
func OptTransport(t Transport) Option {
	return func(p *Peripheral) error {
		p.transport = t
		return nil
	}
}

// OptDriver sets the driver of the status indicators.
func OptDriver(d indicator.Driver) Option {
	return func(p *Peripheral) error {
		p.driver = d
		return nil
	}
}

// OptMTU sets the largest ATT_MTU the peripheral accepts.
func OptMTU(mtu int) Option {
	return func(p *Peripheral) error {
		if mtu < findme.DefaultMTU || mtu > findme.MaxMTU {
			return errors.Errorf("mtu %d out of range [%d, %d]", mtu, findme.DefaultMTU, findme.MaxMTU)
		}
		p.rxMTU = mtu
		return nil
	}
}

// OptArena sets the number and size of response buffers.
func OptArena(slots, size int) Option {
	return func(p *Peripheral) error {
		if slots <= 0 || size <= 0 {
			return errors.Errorf("invalid arena %d x %d", slots, size)
		}
		p.arenaSlots, p.arenaSize = slots, size
		return nil
	}
}
