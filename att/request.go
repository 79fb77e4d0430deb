package att

import "github.com/currantlabs/findme"

// A Request is an attribute request addressed to the Server.
type Request interface {
	Opcode() byte
}

// ReadRequest reads the value of Handle from Offset.
// Blob marks a Read Blob Request; it only changes the opcode of the answer.
type ReadRequest struct {
	Handle uint16
	Offset int
	Blob   bool
}

// WriteRequest replaces the value of Handle.
// Command marks a Write Command, which is never answered.
type WriteRequest struct {
	Handle  uint16
	Value   []byte
	Command bool
}

// ReadByTypeRequest reads every attribute of Type in [Start, End].
type ReadByTypeRequest struct {
	Start uint16
	End   uint16
	Type  findme.UUID
}

// ExchangeMTURequest proposes the client's receive MTU.
type ExchangeMTURequest struct {
	ClientRxMTU int
}

// ConfirmationRequest acknowledges an indication sent by the server.
type ConfirmationRequest struct{}

// UnsupportedRequest is any request the server does not implement.
type UnsupportedRequest struct {
	Code byte
}

// Opcode implements Request.
func (r ReadRequest) Opcode() byte {
	if r.Blob {
		return ReadBlobRequestCode
	}
	return ReadRequestCode
}

// Opcode implements Request.
func (r WriteRequest) Opcode() byte {
	if r.Command {
		return WriteCommandCode
	}
	return WriteRequestCode
}

// Opcode implements Request.
func (ReadByTypeRequest) Opcode() byte { return ReadByTypeRequestCode }

// Opcode implements Request.
func (ExchangeMTURequest) Opcode() byte { return ExchangeMTURequestCode }

// Opcode implements Request.
func (ConfirmationRequest) Opcode() byte { return HandleValueConfirmationCode }

// Opcode implements Request.
func (r UnsupportedRequest) Opcode() byte { return r.Code }

// A Response is the Server's answer to a Request.
type Response interface {
	Opcode() byte
}

// ReadResponse carries (part of) an attribute value.
type ReadResponse struct {
	Value []byte
	Blob  bool
}

// WriteResponse acknowledges a Write Request.
type WriteResponse struct{}

// ReadByTypeResponse carries packed (handle, value) pairs.
// The receiver owns Data and must Release it exactly once, whatever happens to
// the response afterwards.
type ReadByTypeResponse struct {
	PairLen int
	Data    *Buffer
}

// ExchangeMTUResponse carries the negotiated MTU.
type ExchangeMTUResponse struct {
	ServerRxMTU int
}

// Opcode implements Response.
func (r ReadResponse) Opcode() byte {
	if r.Blob {
		return ReadBlobResponseCode
	}
	return ReadResponseCode
}

// Opcode implements Response.
func (WriteResponse) Opcode() byte { return WriteResponseCode }

// Opcode implements Response.
func (ReadByTypeResponse) Opcode() byte { return ReadByTypeResponseCode }

// Opcode implements Response.
func (ExchangeMTUResponse) Opcode() byte { return ExchangeMTUResponseCode }

// Release releases the response buffer.
func (r ReadByTypeResponse) Release() error { return r.Data.Release() }

// Release releases the resources held by rsp, if any.
func Release(rsp Response) error {
	if r, ok := rsp.(interface{ Release() error }); ok {
		return r.Release()
	}
	return nil
}
