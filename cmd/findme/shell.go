package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/currantlabs/findme"
)

const shellHelp = `commands:
  read <handle> [offset]          read an attribute value
  write <handle> <hex>            write request
  wcmd <handle> <hex>             write command
  rbt <type> [start end]          read by type
  mtu <n>                         exchange MTU
  pdu <hex>                       serve a raw ATT PDU
  adv on|off                      advertising started/stopped
  connect <id> [peer]             connection established
  disconnect [id] [reason]        connection lost
  params                          connection parameters updated
  state                           show state and setpoints
  dump                            print the attribute table
  quit`

func shell(c *cli.Context) error {
	r, err := newRunner(c)
	if err != nil {
		return err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "findme> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errors.Wrap(err, "can't create readline")
	}
	defer rl.Close()
	r.w = rl.Stdout()

	fmt.Fprintln(r.w, shellHelp)
	for {
		line, err := rl.Readline()
		if err != nil {
			if chkErr(err) == nil {
				continue
			}
			return nil
		}
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "quit", "q", "exit":
			return nil
		case "help", "?":
			fmt.Fprintln(r.w, shellHelp)
			continue
		case "dump":
			if err := r.p.Dump(r.w); err != nil {
				fmt.Fprintln(r.w, err)
			}
			continue
		}
		s, err := parseLine(f)
		if err != nil {
			fmt.Fprintln(r.w, err)
			continue
		}
		res, err := r.exec(s)
		if err != nil {
			fmt.Fprintln(r.w, err)
			continue
		}
		fmt.Fprintln(r.w, res)
	}
}

// chkErr returns nil for errors the shell shrugs off.
func chkErr(err error) error {
	switch errors.Cause(err) {
	case readline.ErrInterrupt:
		fmt.Printf("(type quit or q to exit)\n")
		return nil
	}
	return err
}

// parseLine turns a shell command into a Step.
func parseLine(f []string) (Step, error) {
	cmd, args := f[0], f[1:]
	need := func(n int) error {
		if len(args) < n {
			return errors.Errorf("%s: missing arguments (type help)", cmd)
		}
		return nil
	}
	var s Step
	var err error
	switch cmd {
	case "read", "r":
		if err = need(1); err != nil {
			return s, err
		}
		s.Op = "read"
		if s.Handle, err = parseHandle(args[0]); err != nil {
			return s, err
		}
		if len(args) > 1 {
			if s.Offset, err = strconv.Atoi(args[1]); err != nil {
				return s, errors.Wrap(err, "invalid offset")
			}
		}
	case "write", "w", "wcmd":
		if err = need(2); err != nil {
			return s, err
		}
		s.Op, s.Command = "write", cmd == "wcmd"
		if s.Handle, err = parseHandle(args[0]); err != nil {
			return s, err
		}
		s.Value = strings.Join(args[1:], "")
	case "rbt":
		if err = need(1); err != nil {
			return s, err
		}
		s.Op, s.Type = "read_by_type", args[0]
		if len(args) == 3 {
			if s.Start, err = parseHandle(args[1]); err != nil {
				return s, err
			}
			if s.End, err = parseHandle(args[2]); err != nil {
				return s, err
			}
		}
	case "mtu":
		if err = need(1); err != nil {
			return s, err
		}
		s.Op = "mtu"
		if s.MTU, err = strconv.Atoi(args[0]); err != nil {
			return s, errors.Wrap(err, "invalid mtu")
		}
	case "pdu":
		if err = need(1); err != nil {
			return s, err
		}
		s.Op, s.PDU = "pdu", strings.Join(args, "")
	case "adv":
		if err = need(1); err != nil {
			return s, err
		}
		switch args[0] {
		case "on":
			s.Op = "adv_start"
		case "off":
			s.Op = "adv_stop"
		default:
			return s, errors.Errorf("adv: want on or off, got %q", args[0])
		}
	case "connect":
		if err = need(1); err != nil {
			return s, err
		}
		s.Op = "connect"
		if s.Conn, err = parseHandle(args[0]); err != nil {
			return s, err
		}
		if len(args) > 1 {
			a, err := findme.ParseAddr(args[1])
			if err != nil {
				return s, err
			}
			s.Peer = a.String()
		}
	case "disconnect":
		s.Op = "disconnect"
		if len(args) > 0 {
			if s.Conn, err = parseHandle(args[0]); err != nil {
				return s, err
			}
		}
		if len(args) > 1 {
			s.Reason = strings.Join(args[1:], " ")
		}
	case "params", "state":
		s.Op = cmd
	default:
		return s, errors.Errorf("unknown command %q (type help)", cmd)
	}
	return s, nil
}

// parseHandle accepts decimal or 0x-prefixed hex.
func parseHandle(s string) (uint16, error) {
	h, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	return uint16(h), nil
}
