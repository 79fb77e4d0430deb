package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionSetpoint(t *testing.T) {
	assert.Equal(t, Off, ConnectionSetpoint(OffOff))
	assert.Equal(t, Blinking, ConnectionSetpoint(OnOff))
	assert.Equal(t, On, ConnectionSetpoint(OffOn))
}

func TestAlertSetpoint(t *testing.T) {
	tests := []struct {
		state State
		level int
		want  DutyCycle
	}{
		{OffOn, AlertNone, Off},
		{OffOn, AlertMild, Blinking},
		{OffOn, AlertHigh, On},
		{OffOn, 9, On},
		{OffOn, -1, On},
		{OffOff, AlertHigh, Off},
		{OnOff, AlertHigh, Off},
		{OnOff, 9, Off},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AlertSetpoint(tt.state, tt.level), "state %s, level %d", tt.state, tt.level)
	}
}

func TestOutOfRangeAlertMatchesHigh(t *testing.T) {
	assert.Equal(t, Compute(OffOn, AlertHigh), Compute(OffOn, 9))
}

func TestDutyCycleValues(t *testing.T) {
	assert.Equal(t, 0, int(On))
	assert.Equal(t, 50, int(Blinking))
	assert.Equal(t, 100, int(Off))
	assert.Equal(t, "blinking", Blinking.String())
	assert.Equal(t, "25%", DutyCycle(25).String())
}
