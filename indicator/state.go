// Package indicator tracks the advertising and connection state of the
// peripheral and derives the setpoints of its two status indicators.
package indicator

import "github.com/currantlabs/findme"

// State combines the advertising and the connection state.
type State int

// State ...
const (
	OffOff State = iota // not advertising, not connected
	OnOff               // advertising, not connected
	OffOn               // connected, not advertising
)

func (s State) String() string {
	switch s {
	case OffOff:
		return "OffOff"
	case OnOff:
		return "OnOff"
	case OffOn:
		return "OffOn"
	}
	return "Unknown"
}

// An Event is a notification from the link layer.
type Event interface {
	String() string
}

// AdvertisingStarted reports that advertising has started.
type AdvertisingStarted struct{}

// AdvertisingStopped reports that advertising has stopped.
type AdvertisingStopped struct{}

// ConnectionEstablished reports a new connection.
type ConnectionEstablished struct {
	ID   uint16
	Peer findme.Addr
}

// ConnectionLost reports that the connection has gone.
type ConnectionLost struct {
	ID     uint16
	Peer   findme.Addr
	Reason string
}

// ConnectionParamsUpdated reports new connection parameters.
// It does not affect the state.
type ConnectionParamsUpdated struct {
	Interval, Latency, Timeout uint16
}

func (AdvertisingStarted) String() string      { return "AdvertisingStarted" }
func (AdvertisingStopped) String() string      { return "AdvertisingStopped" }
func (ConnectionEstablished) String() string   { return "ConnectionEstablished" }
func (ConnectionLost) String() string          { return "ConnectionLost" }
func (ConnectionParamsUpdated) String() string { return "ConnectionParamsUpdated" }

// Transition describes the effect of an event.
// StartAdvertising asks the link layer to restart advertising.
type Transition struct {
	From, To         State
	StartAdvertising bool
}

// Machine merges the advertising and the connection event streams.
// Events are applied in arrival order; the last one wins.
type Machine struct {
	state     State
	connID    uint16
	connected bool
}

// NewMachine returns a Machine in OffOff.
func NewMachine() *Machine { return &Machine{state: OffOff} }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// ConnID returns the id of the live connection, if there is one.
func (m *Machine) ConnID() (uint16, bool) { return m.connID, m.connected }

// Handle applies ev. It reports false for events that do not drive the state,
// which leave the machine untouched.
func (m *Machine) Handle(ev Event) (Transition, bool) {
	t := Transition{From: m.state}
	switch e := ev.(type) {
	case AdvertisingStopped:
		if m.connected {
			m.state = OffOn
		} else {
			m.state = OffOff
		}
	case AdvertisingStarted:
		// Advertising while connected is folded into OnOff.
		m.state = OnOff
	case ConnectionEstablished:
		m.connID, m.connected = e.ID, true
		m.state = OffOn
	case ConnectionLost:
		m.connID, m.connected = 0, false
		m.state = OnOff
		t.StartAdvertising = true
	default:
		return Transition{From: m.state, To: m.state}, false
	}
	t.To = m.state
	return t, true
}
