// Package peripheral runs the attribute server and the status indicators of a
// Find Me target as a single, serialized unit.
package peripheral

import (
	"io"
	"sync"

	"github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"

	"github.com/currantlabs/findme"
	"github.com/currantlabs/findme/att"
	"github.com/currantlabs/findme/indicator"
	"github.com/currantlabs/findme/schema"
)

var logger = log.New("peripheral")

// Transport is the link layer as seen by the peripheral.
type Transport interface {
	// StartAdvertising starts undirected connectable advertising.
	StartAdvertising() error
}

type nopTransport struct{}

func (nopTransport) StartAdvertising() error { return nil }

// Peripheral owns the attribute table, the response buffers and the
// advertising/connection state. Every entry point holds the same lock, so
// requests and notifications are processed one at a time.
type Peripheral struct {
	sync.Mutex

	name  string
	srv   *att.Server
	sm    *indicator.Machine
	alert uint16

	transport Transport
	driver    indicator.Driver
	setpoints indicator.Setpoints

	rxMTU      int
	arenaSlots int
	arenaSize  int
}

// New returns a peripheral serving the database described by s.
func New(s *schema.Schema, opts ...Option) (*Peripheral, error) {
	p := &Peripheral{
		name:       s.Name,
		sm:         indicator.NewMachine(),
		alert:      s.AlertLevel,
		transport:  nopTransport{},
		driver:     indicator.DriverFunc(func(indicator.Setpoints) error { return nil }),
		rxMTU:      s.MTU,
		arenaSlots: s.Arena.Slots,
		arenaSize:  s.Arena.Size,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	db, err := att.NewDB(s.Records())
	if err != nil {
		return nil, errors.Wrap(err, "can't create attribute table")
	}
	if p.alert != 0 {
		wh := findme.WriteHandlerFunc(func(h uint16, v []byte) {
			logger.Info("alert level written", "level", alertLevel(v))
			p.update()
		})
		if err := db.HandleWrite(p.alert, wh); err != nil {
			return nil, errors.Wrap(err, "can't watch alert level")
		}
	}
	idx := att.NewTypeIndex(s.Entries())
	arena := att.NewArena(p.arenaSlots, p.arenaSize)
	p.srv = att.NewServer(db, idx, arena, p.rxMTU)
	p.setpoints = indicator.Compute(p.sm.State(), 0)
	return p, nil
}

// Start drives the indicators to their initial state and starts advertising.
func (p *Peripheral) Start() error {
	p.Lock()
	defer p.Unlock()
	logger.Info("starting", "name", p.name, "attributes", p.srv.DB().Len())
	p.update()
	return errors.Wrap(p.transport.StartAdvertising(), "can't start advertising")
}

// Deliver answers one attribute request. The caller owns the response and
// must release it (see att.Release) exactly once after sending it.
func (p *Peripheral) Deliver(req att.Request) (att.Response, error) {
	p.Lock()
	defer p.Unlock()
	return p.deliver(req)
}

func (p *Peripheral) deliver(req att.Request) (att.Response, error) {
	rsp, err := p.srv.Dispatch(req)
	if err != nil {
		logger.Debug("request failed", "req", req, "err", err)
		return nil, err
	}
	if r, ok := rsp.(att.ExchangeMTUResponse); ok {
		p.srv.SetMTU(r.ServerRxMTU)
		logger.Info("mtu exchanged", "mtu", p.srv.MTU())
	}
	return rsp, nil
}

// ServeATT answers a raw ATT request PDU. It returns nil for requests that
// take no answer.
func (p *Peripheral) ServeATT(pdu []byte) []byte {
	req, err := att.Decode(pdu)
	if err != nil {
		return att.EncodeError(err.(*att.Error))
	}

	p.Lock()
	defer p.Unlock()
	rsp, err := p.deliver(req)
	if err != nil {
		if e, ok := err.(*att.Error); ok {
			return att.EncodeError(e)
		}
		return att.NewErrorResponse(req.Opcode(), 0, findme.ErrGeneric)
	}
	if rsp == nil {
		return nil
	}
	b := att.Encode(rsp)
	if err := att.Release(rsp); err != nil {
		logger.Error("can't release response", "err", err)
	}
	return b
}

// Notify applies a link layer event to the advertising/connection state.
func (p *Peripheral) Notify(ev indicator.Event) {
	p.Lock()
	defer p.Unlock()

	t, ok := p.sm.Handle(ev)
	if !ok {
		logger.Debug("event ignored", "event", ev)
		return
	}
	logger.Info("state", "event", ev, "from", t.From, "to", t.To)
	if t.StartAdvertising {
		p.srv.SetMTU(findme.DefaultMTU)
		if err := p.transport.StartAdvertising(); err != nil {
			logger.Error("can't restart advertising", "err", err)
		}
	}
	p.update()
}

// update recomputes both indicators and hands them to the driver.
// Callers hold the lock.
func (p *Peripheral) update() {
	level := 0
	if r, ok := p.srv.DB().Lookup(p.alert); ok {
		level = alertLevel(r.Value)
	}
	p.setpoints = indicator.Compute(p.sm.State(), level)
	if err := p.driver.SetIndicators(p.setpoints); err != nil {
		logger.Warn("can't set indicators", "err", err)
	}
}

// alertLevel returns the level held in v. An empty value is not a level and
// is reported as unknown, which the policy shows as a high alert.
func alertLevel(v []byte) int {
	if len(v) == 0 {
		return -1
	}
	return int(v[0])
}

// State returns the advertising/connection state.
func (p *Peripheral) State() indicator.State {
	p.Lock()
	defer p.Unlock()
	return p.sm.State()
}

// Setpoints returns the indicator setpoints last handed to the driver.
func (p *Peripheral) Setpoints() indicator.Setpoints {
	p.Lock()
	defer p.Unlock()
	return p.setpoints
}

// MTU returns the ATT_MTU of the current connection.
func (p *Peripheral) MTU() int {
	p.Lock()
	defer p.Unlock()
	return p.srv.MTU()
}

// ArenaStats returns the bookkeeping of the response buffers.
func (p *Peripheral) ArenaStats() att.ArenaStats {
	p.Lock()
	defer p.Unlock()
	return p.srv.Arena().Stats()
}

// Dump writes the attribute table to w.
func (p *Peripheral) Dump(w io.Writer) error {
	p.Lock()
	defer p.Unlock()
	return p.srv.DB().Dump(w)
}
