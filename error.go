package findme

// AttError is the status byte of an ATT Error Response.
type AttError byte

// Status codes answered by the attribute server.
const (
	ErrSuccess AttError = 0x00

	ErrInvalidHandle     AttError = 0x01 // handle unknown to the server
	ErrReadNotPerm       AttError = 0x02
	ErrWriteNotPerm      AttError = 0x03
	ErrInvalidPDU        AttError = 0x04 // malformed request
	ErrAuthentication    AttError = 0x05
	ErrReqNotSupp        AttError = 0x06
	ErrInvalidOffset     AttError = 0x07 // offset at or past the end of the value
	ErrAuthorization     AttError = 0x08
	ErrPrepQueueFull     AttError = 0x09
	ErrAttrNotFound      AttError = 0x0A
	ErrAttrNotLong       AttError = 0x0B
	ErrInsuffEncrKeySize AttError = 0x0C
	ErrInvalAttrValueLen AttError = 0x0D // value longer than the attribute allows
	ErrUnlikely          AttError = 0x0E
	ErrInsuffEnc         AttError = 0x0F
	ErrUnsuppGrpType     AttError = 0x10
	ErrInsuffResources   AttError = 0x11 // no response buffer available

	// ErrGeneric answers requests the server has no specific status for.
	ErrGeneric AttError = 0x85
)

var statusText = [...]string{
	ErrSuccess:           "success",
	ErrInvalidHandle:     "invalid handle",
	ErrReadNotPerm:       "read not permitted",
	ErrWriteNotPerm:      "write not permitted",
	ErrInvalidPDU:        "invalid PDU",
	ErrAuthentication:    "insufficient authentication",
	ErrReqNotSupp:        "request not supported",
	ErrInvalidOffset:     "invalid offset",
	ErrAuthorization:     "insufficient authorization",
	ErrPrepQueueFull:     "prepare queue full",
	ErrAttrNotFound:      "attribute not found",
	ErrAttrNotLong:       "attribute not long",
	ErrInsuffEncrKeySize: "insufficient encryption key size",
	ErrInvalAttrValueLen: "invalid attribute value length",
	ErrUnlikely:          "unlikely error",
	ErrInsuffEnc:         "insufficient encryption",
	ErrUnsuppGrpType:     "unsupported group type",
	ErrInsuffResources:   "insufficient resources",
}

// Application reports whether a is in the range left to the application.
func (a AttError) Application() bool { return a >= 0x80 && a <= 0x9F }

// Profile reports whether a is a common profile or service status.
func (a AttError) Profile() bool { return a >= 0xE0 }

func (a AttError) Error() string {
	switch {
	case int(a) < len(statusText):
		return statusText[a]
	case a == ErrGeneric:
		return "error"
	case a.Application():
		return "application error"
	case a.Profile():
		return "profile or service error"
	}
	return "reserved error code"
}
