package main

import (
	"github.com/currantlabs/findme/indicator"
)

// consoleTransport stands in for the link layer. Advertising requests are
// remembered and reported back as AdvertisingStarted by the runner, outside
// of the peripheral's lock.
type consoleTransport struct {
	pending bool
}

func (t *consoleTransport) StartAdvertising() error {
	logger.Info("link: start advertising")
	t.pending = true
	return nil
}

// consoleDriver logs the indicator setpoints instead of driving LEDs.
type consoleDriver struct{}

func (consoleDriver) SetIndicators(sp indicator.Setpoints) error {
	logger.Info("indicators", "connection", sp.Connection, "alert", sp.Alert)
	return nil
}
