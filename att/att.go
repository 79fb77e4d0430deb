// Package att implements the attribute side of the Attribute Protocol: the
// handle-addressed attribute table, the transient response buffers, the
// read-by-type range query and the request dispatcher that ties them together.
package att

import (
	"fmt"

	"github.com/currantlabs/findme"
)

// Error is returned for a failed request. It carries the opcode of the request
// and the handle that caused the failure, as an Error Response does.
type Error struct {
	Opcode byte
	Handle uint16
	Code   findme.AttError
}

func (e *Error) Error() string {
	return fmt.Sprintf("att: %s (opcode 0x%02X, handle 0x%04X)", e.Code, e.Opcode, e.Handle)
}

// Cause returns the protocol status, so errors.Cause yields an AttError.
func (e *Error) Cause() error { return e.Code }

// Unwrap returns the protocol status.
func (e *Error) Unwrap() error { return e.Code }

// Code returns the protocol status carried by err.
// A nil err yields ErrSuccess; an error that carries no status yields ErrGeneric.
func Code(err error) findme.AttError {
	switch e := err.(type) {
	case nil:
		return findme.ErrSuccess
	case *Error:
		return e.Code
	case findme.AttError:
		return e
	}
	return findme.ErrGeneric
}

func newError(op byte, h uint16, err error) *Error {
	return &Error{Opcode: op, Handle: h, Code: Code(err)}
}
