package att

import (
	"encoding/binary"

	"github.com/currantlabs/findme"
)

const ErrorResponseCode = 0x01

// ErrorResponse implements Error Response (0x01) [Vol 3, Part F, 3.4.1.1].
type ErrorResponse []byte

func (r ErrorResponse) AttributeOpcode() uint8          { return r[0] }
func (r ErrorResponse) SetAttributeOpcode()             { r[0] = 0x01 }
func (r ErrorResponse) RequestOpcodeInError() uint8     { return r[1] }
func (r ErrorResponse) SetRequestOpcodeInError(v uint8) { r[1] = v }
func (r ErrorResponse) AttributeInError() uint16        { return binary.LittleEndian.Uint16(r[2:]) }
func (r ErrorResponse) SetAttributeInError(v uint16)    { binary.LittleEndian.PutUint16(r[2:], v) }
func (r ErrorResponse) ErrorCode() uint8                { return r[4] }
func (r ErrorResponse) SetErrorCode(v uint8)            { r[4] = v }

const ExchangeMTURequestCode = 0x02

// ExchangeMTURequestPDU implements Exchange MTU Request (0x02) [Vol 3, Part F, 3.4.2.1].
type ExchangeMTURequestPDU []byte

func (r ExchangeMTURequestPDU) AttributeOpcode() uint8 { return r[0] }
func (r ExchangeMTURequestPDU) ClientRxMTU() uint16    { return binary.LittleEndian.Uint16(r[1:]) }

const ExchangeMTUResponseCode = 0x03

// ExchangeMTUResponsePDU implements Exchange MTU Response (0x03) [Vol 3, Part F, 3.4.2.2].
type ExchangeMTUResponsePDU []byte

func (r ExchangeMTUResponsePDU) SetAttributeOpcode()     { r[0] = 0x03 }
func (r ExchangeMTUResponsePDU) ServerRxMTU() uint16     { return binary.LittleEndian.Uint16(r[1:]) }
func (r ExchangeMTUResponsePDU) SetServerRxMTU(v uint16) { binary.LittleEndian.PutUint16(r[1:], v) }

const ReadByTypeRequestCode = 0x08

// ReadByTypeRequestPDU implements Read By Type Request (0x08) [Vol 3, Part F, 3.4.4.1].
type ReadByTypeRequestPDU []byte

func (r ReadByTypeRequestPDU) AttributeOpcode() uint8 { return r[0] }
func (r ReadByTypeRequestPDU) StartingHandle() uint16 { return binary.LittleEndian.Uint16(r[1:]) }
func (r ReadByTypeRequestPDU) EndingHandle() uint16   { return binary.LittleEndian.Uint16(r[3:]) }
func (r ReadByTypeRequestPDU) AttributeType() []byte  { return r[5:] }

const ReadByTypeResponseCode = 0x09

// ReadByTypeResponsePDU implements Read By Type Response (0x09) [Vol 3, Part F, 3.4.4.2].
type ReadByTypeResponsePDU []byte

func (r ReadByTypeResponsePDU) SetAttributeOpcode()           { r[0] = 0x09 }
func (r ReadByTypeResponsePDU) Length() uint8                 { return r[1] }
func (r ReadByTypeResponsePDU) SetLength(v uint8)             { r[1] = v }
func (r ReadByTypeResponsePDU) AttributeDataList() []byte     { return r[2:] }
func (r ReadByTypeResponsePDU) SetAttributeDataList(v []byte) { copy(r[2:], v) }

const ReadRequestCode = 0x0A

// ReadRequestPDU implements Read Request (0x0A) [Vol 3, Part F, 3.4.4.3].
type ReadRequestPDU []byte

func (r ReadRequestPDU) AttributeOpcode() uint8  { return r[0] }
func (r ReadRequestPDU) AttributeHandle() uint16 { return binary.LittleEndian.Uint16(r[1:]) }

const ReadResponseCode = 0x0B

const ReadBlobRequestCode = 0x0C

// ReadBlobRequestPDU implements Read Blob Request (0x0C) [Vol 3, Part F, 3.4.4.5].
type ReadBlobRequestPDU []byte

func (r ReadBlobRequestPDU) AttributeOpcode() uint8  { return r[0] }
func (r ReadBlobRequestPDU) AttributeHandle() uint16 { return binary.LittleEndian.Uint16(r[1:]) }
func (r ReadBlobRequestPDU) ValueOffset() uint16     { return binary.LittleEndian.Uint16(r[3:]) }

const ReadBlobResponseCode = 0x0D

const WriteRequestCode = 0x12

// WriteRequestPDU implements Write Request (0x12) [Vol 3, Part F, 3.4.5.1].
// Write Command (0x52) shares its layout.
type WriteRequestPDU []byte

func (r WriteRequestPDU) AttributeOpcode() uint8  { return r[0] }
func (r WriteRequestPDU) AttributeHandle() uint16 { return binary.LittleEndian.Uint16(r[1:]) }
func (r WriteRequestPDU) AttributeValue() []byte  { return r[3:] }

const WriteResponseCode = 0x13

const WriteCommandCode = 0x52

const HandleValueConfirmationCode = 0x1E

// NewErrorResponse returns an Error Response for the request op on handle h.
func NewErrorResponse(op byte, h uint16, s findme.AttError) []byte {
	r := ErrorResponse(make([]byte, 5))
	r.SetAttributeOpcode()
	r.SetRequestOpcodeInError(op)
	r.SetAttributeInError(h)
	r.SetErrorCode(uint8(s))
	return r
}

// minLen is the shortest well-formed PDU for each supported request.
var minLen = map[byte]int{
	ExchangeMTURequestCode:      3,
	ReadByTypeRequestCode:       7,
	ReadRequestCode:             3,
	ReadBlobRequestCode:         5,
	WriteRequestCode:            3,
	WriteCommandCode:            3,
	HandleValueConfirmationCode: 1,
}

// Decode parses an ATT request PDU.
// Opcodes the server does not implement decode to UnsupportedRequest.
func Decode(b []byte) (Request, error) {
	if len(b) == 0 {
		return nil, &Error{Code: findme.ErrInvalidPDU}
	}
	op := b[0]
	n, ok := minLen[op]
	if !ok {
		return UnsupportedRequest{Code: op}, nil
	}
	if len(b) < n {
		return nil, &Error{Opcode: op, Code: findme.ErrInvalidPDU}
	}
	switch op {
	case ExchangeMTURequestCode:
		return ExchangeMTURequest{ClientRxMTU: int(ExchangeMTURequestPDU(b).ClientRxMTU())}, nil
	case ReadByTypeRequestCode:
		r := ReadByTypeRequestPDU(b)
		t := r.AttributeType()
		if len(t) != 2 && len(t) != 16 {
			return nil, &Error{Opcode: op, Handle: r.StartingHandle(), Code: findme.ErrInvalidPDU}
		}
		return ReadByTypeRequest{
			Start: r.StartingHandle(),
			End:   r.EndingHandle(),
			Type:  findme.UUID(append([]byte(nil), t...)),
		}, nil
	case ReadRequestCode:
		return ReadRequest{Handle: ReadRequestPDU(b).AttributeHandle()}, nil
	case ReadBlobRequestCode:
		r := ReadBlobRequestPDU(b)
		return ReadRequest{Handle: r.AttributeHandle(), Offset: int(r.ValueOffset()), Blob: true}, nil
	case WriteRequestCode, WriteCommandCode:
		r := WriteRequestPDU(b)
		return WriteRequest{
			Handle:  r.AttributeHandle(),
			Value:   append([]byte(nil), r.AttributeValue()...),
			Command: op == WriteCommandCode,
		}, nil
	case HandleValueConfirmationCode:
		return ConfirmationRequest{}, nil
	}
	return UnsupportedRequest{Code: op}, nil
}

// Encode returns the PDU for rsp. It does not release any buffer held by rsp.
func Encode(rsp Response) []byte {
	switch r := rsp.(type) {
	case ReadResponse:
		return append([]byte{r.Opcode()}, r.Value...)
	case WriteResponse:
		return []byte{WriteResponseCode}
	case ExchangeMTUResponse:
		b := ExchangeMTUResponsePDU(make([]byte, 3))
		b.SetAttributeOpcode()
		b.SetServerRxMTU(uint16(r.ServerRxMTU))
		return b
	case ReadByTypeResponse:
		data := r.Data.Bytes()
		b := ReadByTypeResponsePDU(make([]byte, 2+len(data)))
		b.SetAttributeOpcode()
		b.SetLength(uint8(r.PairLen))
		b.SetAttributeDataList(data)
		return b
	}
	return nil
}

// EncodeError returns the Error Response for err.
func EncodeError(err *Error) []byte {
	return NewErrorResponse(err.Opcode, err.Handle, err.Code)
}
