package att

import (
	"sort"

	"github.com/currantlabs/findme"
)

// An Index locates attributes by type. FindNextHandleOfType returns the lowest
// handle in [from, to] whose type is typ.
type Index interface {
	FindNextHandleOfType(from, to uint16, typ findme.UUID) (uint16, bool)
}

// IndexFunc is an adapter to allow the use of ordinary functions as Indexes.
type IndexFunc func(from, to uint16, typ findme.UUID) (uint16, bool)

// FindNextHandleOfType returns f(from, to, typ).
func (f IndexFunc) FindNextHandleOfType(from, to uint16, typ findme.UUID) (uint16, bool) {
	return f(from, to, typ)
}

// An Entry places one attribute type at one handle.
type Entry struct {
	Handle uint16
	Type   findme.UUID
}

// A TypeIndex is an Index over the whole attribute database, which may hold
// handles (such as declarations) that the attribute table does not.
type TypeIndex struct {
	entries []Entry
}

// NewTypeIndex returns an index over ee.
func NewTypeIndex(ee []Entry) *TypeIndex {
	entries := append([]Entry(nil), ee...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Handle < entries[j].Handle })
	return &TypeIndex{entries: entries}
}

// subrange returns entries in range [start, end]; it may return an empty slice.
func (x *TypeIndex) subrange(start, end uint16) []Entry {
	if start > end {
		return nil
	}
	i := sort.Search(len(x.entries), func(i int) bool { return x.entries[i].Handle >= start })
	j := sort.Search(len(x.entries), func(i int) bool { return x.entries[i].Handle > end })
	return x.entries[i:j]
}

// FindNextHandleOfType implements Index.
func (x *TypeIndex) FindNextHandleOfType(from, to uint16, typ findme.UUID) (uint16, bool) {
	for _, e := range x.subrange(from, to) {
		if e.Type.Equal(typ) {
			return e.Handle, true
		}
	}
	return 0, false
}
