package indicator

import "strconv"

// DutyCycle is an indicator setpoint in percent off-time:
// 0 is fully on, 50 is blinking, 100 is fully off.
type DutyCycle int

// DutyCycle ...
const (
	On       DutyCycle = 0
	Blinking DutyCycle = 50
	Off      DutyCycle = 100
)

func (d DutyCycle) String() string {
	switch d {
	case On:
		return "on"
	case Blinking:
		return "blinking"
	case Off:
		return "off"
	}
	return strconv.Itoa(int(d)) + "%"
}

// Alert levels of the Immediate Alert Service.
const (
	AlertNone = 0
	AlertMild = 1
	AlertHigh = 2
)

// Setpoints holds the outputs of both indicators.
type Setpoints struct {
	Connection DutyCycle
	Alert      DutyCycle
}

// ConnectionSetpoint returns the connection indicator for s.
func ConnectionSetpoint(s State) DutyCycle {
	switch s {
	case OnOff:
		return Blinking
	case OffOn:
		return On
	}
	return Off
}

// AlertSetpoint returns the alert indicator for s and level. The alert
// indicator is lit only while connected; unknown levels are shown as high.
func AlertSetpoint(s State, level int) DutyCycle {
	if s != OffOn {
		return Off
	}
	switch level {
	case AlertNone:
		return Off
	case AlertMild:
		return Blinking
	}
	return On
}

// Compute returns both setpoints.
func Compute(s State, level int) Setpoints {
	return Setpoints{
		Connection: ConnectionSetpoint(s),
		Alert:      AlertSetpoint(s, level),
	}
}

// A Driver turns setpoints into physical signals.
type Driver interface {
	SetIndicators(sp Setpoints) error
}

// DriverFunc is an adapter to allow the use of ordinary functions as Drivers.
type DriverFunc func(sp Setpoints) error

// SetIndicators returns f(sp).
func (f DriverFunc) SetIndicators(sp Setpoints) error { return f(sp) }
