package att

import "github.com/currantlabs/findme"

// Server answers attribute requests against a DB.
// It is not safe for concurrent use; callers serialize access.
type Server struct {
	db    *DB
	idx   Index
	arena *Arena

	rxMTU int // MTU the server is able to receive
	txMTU int // MTU negotiated with the client
}

// NewServer returns a Server over db. Read-by-type candidates are located
// through idx and packed into buffers taken from arena. rxMTU bounds MTU
// negotiation.
func NewServer(db *DB, idx Index, arena *Arena, rxMTU int) *Server {
	if rxMTU < findme.DefaultMTU {
		rxMTU = findme.DefaultMTU
	}
	if rxMTU > findme.MaxMTU {
		rxMTU = findme.MaxMTU
	}
	return &Server{
		db:    db,
		idx:   idx,
		arena: arena,
		rxMTU: rxMTU,
		txMTU: findme.DefaultMTU,
	}
}

// DB returns the attribute table.
func (s *Server) DB() *DB { return s.db }

// Arena returns the arena response buffers are taken from.
func (s *Server) Arena() *Arena { return s.arena }

// MTU returns the ATT_MTU used to size responses.
func (s *Server) MTU() int { return s.txMTU }

// SetMTU sets the ATT_MTU used to size responses, typically the result of an
// MTU exchange. Values are bounded to [DefaultMTU, rxMTU].
func (s *Server) SetMTU(mtu int) { s.txMTU = NegotiateMTU(mtu, s.rxMTU) }

// NegotiateMTU returns the ATT_MTU for a client proposing proposed to a server
// able to receive server bytes.
func NegotiateMTU(proposed, server int) int {
	mtu := proposed
	if mtu < findme.DefaultMTU {
		mtu = findme.DefaultMTU
	}
	if mtu > server {
		mtu = server
	}
	return mtu
}

// Dispatch handles req. A nil Response with a nil error means the request
// takes no answer. Failures are *Error values naming the offending handle.
func (s *Server) Dispatch(req Request) (Response, error) {
	switch r := req.(type) {
	case ReadRequest:
		return s.handleRead(r)
	case WriteRequest:
		return s.handleWrite(r)
	case ReadByTypeRequest:
		return s.handleReadByType(r)
	case ExchangeMTURequest:
		return ExchangeMTUResponse{ServerRxMTU: NegotiateMTU(r.ClientRxMTU, s.rxMTU)}, nil
	case ConfirmationRequest:
		return nil, nil
	case nil:
		return nil, &Error{Code: findme.ErrGeneric}
	}
	return nil, &Error{Opcode: req.Opcode(), Code: findme.ErrGeneric}
}

func (s *Server) handleRead(r ReadRequest) (Response, error) {
	v, err := s.db.Read(r.Handle, r.Offset, s.txMTU-1)
	if err != nil {
		return nil, newError(r.Opcode(), r.Handle, err)
	}
	return ReadResponse{Value: v, Blob: r.Blob}, nil
}

func (s *Server) handleWrite(r WriteRequest) (Response, error) {
	if err := s.db.Write(r.Handle, r.Value); err != nil {
		return nil, newError(r.Opcode(), r.Handle, err)
	}
	if r.Command {
		return nil, nil
	}
	return WriteResponse{}, nil
}

func (s *Server) handleReadByType(r ReadByTypeRequest) (Response, error) {
	if r.Start == 0 || r.Start > r.End {
		return nil, &Error{Opcode: r.Opcode(), Handle: r.Start, Code: findme.ErrInvalidHandle}
	}
	max := s.txMTU - 2
	if max > s.arena.SlotSize() {
		max = s.arena.SlotSize()
	}
	res, err := ReadByType(s.db, s.idx, s.arena, r.Start, r.End, r.Type, max)
	if err != nil {
		e := newError(r.Opcode(), r.Start, err)
		if found, ok := err.(*Error); ok {
			e.Handle = found.Handle
		}
		return nil, e
	}
	return ReadByTypeResponse{PairLen: res.PairLen, Data: res.Buf}, nil
}
