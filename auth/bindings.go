package auth

// TransportSession is the handle for an authentication attempt bound to a
// transport-level security mechanism such as TLS. Engine and socket
// construction are intentionally left to the transport collaborator; the
// session only exposes the dispatcher the transport's handshake callbacks
// drive.
type TransportSession struct {
	dispatcher *Dispatcher
}

// StartTransportSession initiates authentication for a transport-secured
// session. Returns an AlreadyInitiated error if authentication was already
// started on this context.
func (c *Context) StartTransportSession() (*TransportSession, error) {
	if err := c.Start(); err != nil {
		return nil, err
	}
	return &TransportSession{dispatcher: NewDispatcher(c)}, nil
}

// Handler returns the dispatcher handshake callbacks should drive
func (s *TransportSession) Handler() *Dispatcher {
	return s.dispatcher
}
