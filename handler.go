package findme

// A WriteHandler is notified after a value has been committed to an attribute.
type WriteHandler interface {
	ServeWrite(h uint16, value []byte)
}

// WriteHandlerFunc is an adapter to allow the use of ordinary functions as WriteHandlers.
type WriteHandlerFunc func(h uint16, value []byte)

// ServeWrite returns f(h, value).
func (f WriteHandlerFunc) ServeWrite(h uint16, value []byte) {
	f(h, value)
}
