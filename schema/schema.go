// Package schema loads the attribute database of the peripheral from YAML.
package schema

import (
	_ "embed"
	"encoding/hex"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/currantlabs/findme"
	"github.com/currantlabs/findme/att"
)

//go:embed findme.yaml
var findMe []byte

// Schema describes the attribute database and the resources serving it.
type Schema struct {
	Name       string      `yaml:"name"`
	MTU        int         `yaml:"mtu"`
	Arena      Arena       `yaml:"arena"`
	AlertLevel uint16      `yaml:"alert_level"`
	Attributes []Attribute `yaml:"attributes"`

	records []att.Record
	entries []att.Entry
}

// Arena sizes the response buffer arena.
type Arena struct {
	Slots int `yaml:"slots"`
	Size  int `yaml:"size"`
}

// Attribute is one entry of the database.
// Value is hex (spaces allowed); Text is taken verbatim. Table defaults to
// true; declarations the stack answers for set it to false.
type Attribute struct {
	Handle uint16 `yaml:"handle"`
	Type   string `yaml:"type"`
	MaxLen int    `yaml:"max_len"`
	Value  string `yaml:"value"`
	Text   string `yaml:"text"`
	Table  *bool  `yaml:"table"`
}

// Default returns the built-in Find Me Target database.
func Default() *Schema {
	s, err := Parse(findMe)
	if err != nil {
		panic(err)
	}
	return s
}

// Load reads and parses the schema at path.
func Load(path string) (*Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't read schema")
	}
	s, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}

// Parse parses and validates a YAML schema.
func Parse(b []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrap(err, "can't parse schema")
	}
	if err := s.resolve(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) resolve() error {
	if s.MTU == 0 {
		s.MTU = findme.MaxMTU - 3
	}
	if s.MTU < findme.DefaultMTU || s.MTU > findme.MaxMTU {
		return errors.Errorf("mtu %d out of range [%d, %d]", s.MTU, findme.DefaultMTU, findme.MaxMTU)
	}
	if s.Arena.Slots == 0 {
		s.Arena.Slots = 4
	}
	if s.Arena.Size == 0 {
		s.Arena.Size = s.MTU
	}
	if s.Arena.Slots < 0 || s.Arena.Size < 0 {
		return errors.New("arena slots and size must be positive")
	}

	seen := make(map[uint16]bool)
	for _, a := range s.Attributes {
		if a.Handle == 0 {
			return errors.New("handle 0x0000 is reserved")
		}
		if seen[a.Handle] {
			return errors.Errorf("duplicate handle 0x%04X", a.Handle)
		}
		seen[a.Handle] = true

		typ, err := findme.Parse(a.Type)
		if err != nil {
			return errors.Wrapf(err, "handle 0x%04X: bad type %q", a.Handle, a.Type)
		}
		v, err := a.value()
		if err != nil {
			return errors.Wrapf(err, "handle 0x%04X", a.Handle)
		}
		s.entries = append(s.entries, att.Entry{Handle: a.Handle, Type: typ})
		if a.Table != nil && !*a.Table {
			continue
		}
		max := a.MaxLen
		if max == 0 {
			max = len(v)
		}
		if len(v) > max {
			return errors.Errorf("handle 0x%04X: value length %d exceeds max_len %d", a.Handle, len(v), max)
		}
		s.records = append(s.records, att.Record{Handle: a.Handle, Type: typ, MaxLen: max, Value: v})
	}
	sort.Slice(s.entries, func(i, j int) bool { return s.entries[i].Handle < s.entries[j].Handle })

	if s.AlertLevel != 0 {
		if _, ok := s.record(s.AlertLevel); !ok {
			return errors.Errorf("alert_level 0x%04X is not in the attribute table", s.AlertLevel)
		}
	}
	return nil
}

func (a Attribute) value() ([]byte, error) {
	if a.Value != "" && a.Text != "" {
		return nil, errors.New("value and text are mutually exclusive")
	}
	if a.Text != "" {
		return []byte(a.Text), nil
	}
	v, err := hex.DecodeString(strings.Join(strings.Fields(a.Value), ""))
	if err != nil {
		return nil, errors.Wrap(err, "bad value")
	}
	return v, nil
}

func (s *Schema) record(h uint16) (att.Record, bool) {
	for _, r := range s.records {
		if r.Handle == h {
			return r, true
		}
	}
	return att.Record{}, false
}

// Records returns the attributes of the table.
func (s *Schema) Records() []att.Record {
	rr := make([]att.Record, len(s.records))
	for i, r := range s.records {
		r.Value = append([]byte(nil), r.Value...)
		rr[i] = r
	}
	return rr
}

// Entries returns every attribute of the database, in handle order.
func (s *Schema) Entries() []att.Entry {
	return append([]att.Entry(nil), s.entries...)
}
