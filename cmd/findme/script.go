package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/currantlabs/findme"
	"github.com/currantlabs/findme/att"
	"github.com/currantlabs/findme/indicator"
	"github.com/currantlabs/findme/peripheral"
)

// Script is a replayable sequence of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is a single request or link layer event. Op selects which of the
// other fields apply. A non-empty Expect is compared with the result.
type Step struct {
	Op      string `yaml:"op"`
	Handle  uint16 `yaml:"handle,omitempty"`
	Offset  int    `yaml:"offset,omitempty"`
	Value   string `yaml:"value,omitempty"`
	Command bool   `yaml:"command,omitempty"`
	Start   uint16 `yaml:"start,omitempty"`
	End     uint16 `yaml:"end,omitempty"`
	Type    string `yaml:"type,omitempty"`
	MTU     int    `yaml:"mtu,omitempty"`
	Conn    uint16 `yaml:"conn,omitempty"`
	Peer    string `yaml:"peer,omitempty"`
	Reason  string `yaml:"reason,omitempty"`
	PDU     string `yaml:"pdu,omitempty"`
	Expect  string `yaml:"expect,omitempty"`
}

func (s Step) String() string {
	switch s.Op {
	case "read", "write":
		return fmt.Sprintf("%s 0x%04X", s.Op, s.Handle)
	case "read_by_type":
		return fmt.Sprintf("%s %s", s.Op, s.Type)
	case "connect", "disconnect":
		return fmt.Sprintf("%s %d", s.Op, s.Conn)
	}
	return s.Op
}

func loadScript(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't read script")
	}
	return parseScript(b)
}

func parseScript(b []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, errors.Wrap(err, "can't parse script")
	}
	for i, s := range sc.Steps {
		if _, ok := ops[s.Op]; !ok {
			return nil, errors.Errorf("step %d: unknown op %q", i+1, s.Op)
		}
		if s.Peer != "" {
			if _, err := findme.ParseAddr(s.Peer); err != nil {
				return nil, errors.Wrapf(err, "step %d", i+1)
			}
		}
	}
	return &sc, nil
}

// runner feeds steps to a peripheral and reports the results to w.
type runner struct {
	p *peripheral.Peripheral
	t *consoleTransport
	w io.Writer
}

// flush reports a pending advertising request as started.
func (r *runner) flush() {
	if r.t != nil && r.t.pending {
		r.t.pending = false
		r.p.Notify(indicator.AdvertisingStarted{})
	}
}

func (r *runner) run(sc *Script) error {
	if sc.Name != "" {
		fmt.Fprintf(r.w, "# %s\n", sc.Name)
	}
	failed := 0
	for i, s := range sc.Steps {
		res, err := r.exec(s)
		if err != nil {
			return errors.Wrapf(err, "step %d (%s)", i+1, s)
		}
		mark := ""
		if s.Expect != "" && !strings.EqualFold(s.Expect, res) {
			mark = fmt.Sprintf("  [expected %s]", s.Expect)
			failed++
		}
		fmt.Fprintf(r.w, "%-24s %s%s\n", s, res, mark)
	}
	if failed != 0 {
		return errors.Errorf("%d of %d steps did not match", failed, len(sc.Steps))
	}
	return nil
}

var ops = map[string]func(*runner, Step) (string, error){
	"adv_start":    func(r *runner, s Step) (string, error) { return r.notify(indicator.AdvertisingStarted{}) },
	"adv_stop":     func(r *runner, s Step) (string, error) { return r.notify(indicator.AdvertisingStopped{}) },
	"connect":      func(r *runner, s Step) (string, error) { return r.notify(indicator.ConnectionEstablished{ID: s.Conn, Peer: peer(s.Peer)}) },
	"disconnect":   func(r *runner, s Step) (string, error) { return r.notify(indicator.ConnectionLost{ID: s.Conn, Peer: peer(s.Peer), Reason: s.Reason}) },
	"params":       func(r *runner, s Step) (string, error) { return r.notify(indicator.ConnectionParamsUpdated{}) },
	"state":        (*runner).state,
	"read":         (*runner).read,
	"write":        (*runner).write,
	"read_by_type": (*runner).readByType,
	"mtu":          (*runner).mtu,
	"pdu":          (*runner).pdu,
}

// exec runs one step. ATT failures are results, not errors.
func (r *runner) exec(s Step) (string, error) {
	op, ok := ops[s.Op]
	if !ok {
		return "", errors.Errorf("unknown op %q", s.Op)
	}
	defer r.flush()
	return op(r, s)
}

func (r *runner) notify(ev indicator.Event) (string, error) {
	r.p.Notify(ev)
	r.flush()
	return r.state(Step{})
}

func (r *runner) state(Step) (string, error) {
	sp := r.p.Setpoints()
	return fmt.Sprintf("%s connection=%s alert=%s", r.p.State(), sp.Connection, sp.Alert), nil
}

func (r *runner) read(s Step) (string, error) {
	rsp, err := r.p.Deliver(att.ReadRequest{Handle: s.Handle, Offset: s.Offset, Blob: s.Offset != 0})
	if err != nil {
		return attResult(err)
	}
	return fmt.Sprintf("%X", rsp.(att.ReadResponse).Value), nil
}

func (r *runner) write(s Step) (string, error) {
	v, err := decodeHex(s.Value)
	if err != nil {
		return "", err
	}
	if _, err := r.p.Deliver(att.WriteRequest{Handle: s.Handle, Value: v, Command: s.Command}); err != nil {
		return attResult(err)
	}
	return "ok", nil
}

func (r *runner) readByType(s Step) (string, error) {
	typ, err := findme.Parse(s.Type)
	if err != nil {
		return "", errors.Wrapf(err, "invalid type %q", s.Type)
	}
	start, end := s.Start, s.End
	if start == 0 && end == 0 {
		start, end = 0x0001, 0xFFFF
	}
	rsp, err := r.p.Deliver(att.ReadByTypeRequest{Start: start, End: end, Type: typ})
	if err != nil {
		return attResult(err)
	}
	rbt := rsp.(att.ReadByTypeResponse)
	res := fmt.Sprintf("len=%d %X", rbt.PairLen, rbt.Data.Bytes())
	if err := att.Release(rsp); err != nil {
		logger.Error("can't release response", "err", err)
	}
	return res, nil
}

func (r *runner) mtu(s Step) (string, error) {
	if _, err := r.p.Deliver(att.ExchangeMTURequest{ClientRxMTU: s.MTU}); err != nil {
		return attResult(err)
	}
	return fmt.Sprintf("mtu=%d", r.p.MTU()), nil
}

func (r *runner) pdu(s Step) (string, error) {
	b, err := decodeHex(s.PDU)
	if err != nil {
		return "", err
	}
	rsp := r.p.ServeATT(b)
	if rsp == nil {
		return "none", nil
	}
	return fmt.Sprintf("%X", rsp), nil
}

func peer(s string) findme.Addr {
	if s == "" {
		return nil
	}
	return findme.NewAddr(s)
}

func attResult(err error) (string, error) {
	return "error: " + att.Code(err).Error(), nil
}

// decodeHex accepts hex digits with optional white space.
func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex %q", s)
	}
	return b, nil
}
