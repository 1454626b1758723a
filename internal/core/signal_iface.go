package core

// Frame is one encoded outbound message.
type Frame []byte

// SignalConnection is the send side of one client connection.
// TrySend never blocks; Close asks the transport to drop the client.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
