package att

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/currantlabs/findme"
)

// A DB is the attribute table, ordered by handle.
// Each attribute owns its value buffer; the contents change only through Write.
type DB struct {
	attrs []*attr
}

// NewDB builds a table from rr. Handles must be unique and non-zero, and no
// initial value may exceed the attribute's maximum length.
func NewDB(rr []Record) (*DB, error) {
	attrs := make([]*attr, 0, len(rr))
	for _, r := range rr {
		if r.Handle == 0 {
			return nil, errors.New("handle 0x0000 is reserved")
		}
		if len(r.Value) > r.MaxLen {
			return nil, errors.Errorf("handle 0x%04X: value length %d exceeds max length %d", r.Handle, len(r.Value), r.MaxLen)
		}
		v := make([]byte, len(r.Value), r.MaxLen)
		copy(v, r.Value)
		attrs = append(attrs, &attr{h: r.Handle, typ: r.Type, v: v})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].h < attrs[j].h })
	for i := 1; i < len(attrs); i++ {
		if attrs[i].h == attrs[i-1].h {
			return nil, errors.Errorf("duplicate handle 0x%04X", attrs[i].h)
		}
	}
	return &DB{attrs: attrs}, nil
}

// at returns the attribute with handle h.
func (db *DB) at(h uint16) (*attr, bool) {
	i := sort.Search(len(db.attrs), func(i int) bool { return db.attrs[i].h >= h })
	if i == len(db.attrs) || db.attrs[i].h != h {
		return nil, false
	}
	return db.attrs[i], true
}

// Len returns the number of attributes in the table.
func (db *DB) Len() int { return len(db.attrs) }

// Lookup returns a snapshot of the attribute with handle h.
func (db *DB) Lookup(h uint16) (Record, bool) {
	a, ok := db.at(h)
	if !ok {
		return Record{}, false
	}
	return Record{
		Handle: a.h,
		Type:   a.typ,
		MaxLen: a.maxLen(),
		Value:  append([]byte(nil), a.v...),
	}, true
}

// HandleWrite registers wh to be called after every successful write to h.
// Only attributes present in the table can carry a handler.
func (db *DB) HandleWrite(h uint16, wh findme.WriteHandler) error {
	a, ok := db.at(h)
	if !ok {
		return errors.Wrapf(findme.ErrInvalidHandle, "handle 0x%04X", h)
	}
	a.wh = wh
	return nil
}

// Read returns up to max bytes of the value of h, starting at offset.
func (db *DB) Read(h uint16, offset, max int) ([]byte, error) {
	a, ok := db.at(h)
	if !ok {
		return nil, findme.ErrInvalidHandle
	}
	if offset < 0 || offset >= len(a.v) {
		return nil, findme.ErrInvalidOffset
	}
	n := len(a.v) - offset
	if max >= 0 && n > max {
		n = max
	}
	return append([]byte(nil), a.v[offset:offset+n]...), nil
}

// Write replaces the value of h. The write either completes or leaves the
// attribute untouched. The attribute's WriteHandler, if any, is called after
// the value has been committed.
func (db *DB) Write(h uint16, value []byte) error {
	a, ok := db.at(h)
	if !ok {
		// A handle without an entry is never writable, handler or not.
		return findme.ErrWriteNotPerm
	}
	if len(value) > a.maxLen() {
		return findme.ErrInvalAttrValueLen
	}
	a.v = append(a.v[:0], value...)
	if a.wh != nil {
		a.wh.ServeWrite(h, append([]byte(nil), a.v...))
	}
	return nil
}

// Dump writes the attribute table to w.
func (db *DB) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, '\t', 0)
	fmt.Fprintf(tw, "handle\ttype\tlen\tmax\tvalue\n")
	for _, a := range db.attrs {
		name := findme.Name(a.typ)
		if name == "" {
			name = "0x" + a.typ.String()
		}
		fmt.Fprintf(tw, "0x%04X\t%s\t%d\t%d\t[ % X ]\n", a.h, name, len(a.v), a.maxLen(), a.v)
	}
	return tw.Flush()
}
