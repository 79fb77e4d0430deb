package att

import (
	"encoding/binary"

	"github.com/currantlabs/findme"
)

// maxPairLen is the largest pair the one-byte length field of a Read By Type
// Response can describe.
const maxPairLen = 0xFF

// ReadByTypeResult is a packed list of (handle, value) pairs of equal width.
// The caller owns Buf and must release it exactly once.
type ReadByTypeResult struct {
	PairLen int
	Used    int
	Buf     *Buffer
}

// ReadByType collects the attributes of type typ in [start, end] into a buffer
// of at most max bytes, taken from arena.
//
// Handles are found one at a time through idx and must resolve in db. The
// width of every pair is fixed by the first one; the scan ends quietly at the
// first value that has a different width or does not fit. An empty result is
// reported as ErrInvalidHandle; a handle that does not resolve is reported as
// an *Error naming that handle.
func ReadByType(db *DB, idx Index, arena *Arena, start, end uint16, typ findme.UUID, max int) (*ReadByTypeResult, error) {
	buf, ok := arena.Allocate(max)
	if !ok {
		return nil, findme.ErrInsuffResources
	}

	pairLen := 0
	cur := start
	for {
		h, ok := idx.FindNextHandleOfType(cur, end, typ)
		if !ok {
			break
		}
		a, ok := db.at(h)
		if !ok {
			discard(buf)
			return nil, &Error{Handle: h, Code: findme.ErrInvalidHandle}
		}
		n, ok := putPair(buf, pairLen, h, a.v)
		if !ok {
			break
		}
		pairLen = n
		if h == 0xFFFF {
			break
		}
		cur = h + 1
	}

	if pairLen == 0 {
		discard(buf)
		return nil, findme.ErrInvalidHandle
	}
	return &ReadByTypeResult{PairLen: pairLen, Used: buf.Len(), Buf: buf}, nil
}

// discard releases a buffer allocated by the caller and never handed out.
// A fresh buffer has not been released, so Release cannot fail.
func discard(buf *Buffer) {
	if err := buf.Release(); err != nil {
		panic(err)
	}
}

// putPair appends (h, v) if it matches the pair width and fits in buf.
// A zero width means this is the first pair, which sets the width.
func putPair(buf *Buffer, width int, h uint16, v []byte) (int, bool) {
	n := 2 + len(v)
	switch {
	case width == 0 && n > maxPairLen:
		return 0, false
	case width != 0 && n != width:
		return 0, false
	}
	var hb [2]byte
	binary.LittleEndian.PutUint16(hb[:], h)
	if !buf.Append(hb[:], v) {
		return 0, false
	}
	return n, true
}
