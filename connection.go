package edgedb

import (
	"context"
	"sync"

	"github.com/edgedb/edgedb-go/internal/buffer"
	"github.com/edgedb/edgedb-go/internal/codec"
	"github.com/edgedb/edgedb-go/internal/protocol"
	"github.com/sirupsen/logrus"
)

const readChunkSize = 4096

// Connection is a single request/response connection to the server. It
// is not safe for concurrent use: spec §5 forbids interleaving commands
// on one connection, and a Connection enforces that with a mutex rather
// than relying on callers to serialize themselves.
type Connection struct {
	mu sync.Mutex

	transport Transport
	logger    *logrus.Entry

	writer *buffer.MessageWriter
	reader *buffer.MessageReader

	registry *codec.Registry

	phase             protocol.Phase
	transactionStatus protocol.TransactionStatus
	serverSettings    map[string]string
	serverSecret      []byte
	lastStatus        string
}

func newConnection(t Transport, logger *logrus.Entry) *Connection {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Connection{
		transport:      t,
		logger:         logger,
		writer:         buffer.NewMessageWriter(),
		reader:         buffer.NewMessageReader(),
		registry:       codec.NewRegistry(),
		phase:          protocol.TCPConnected,
		serverSettings: make(map[string]string),
	}
}

// Phase reports the connection's current lifecycle phase.
func (c *Connection) Phase() protocol.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// TransactionStatus reports the status last reported by ReadyForCommand.
func (c *Connection) TransactionStatus() protocol.TransactionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transactionStatus
}

// Close releases the underlying transport. Safe to call more than once
// and safe to call while the connection is mid-handshake.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == protocol.Closed {
		return nil
	}
	c.phase = protocol.Closed
	return c.transport.Close()
}

func (c *Connection) setClosed() {
	c.phase = protocol.Closed
}

// readChunk performs one blocking Read, honoring ctx cancellation by
// closing the transport if ctx is done first — the Go-idiomatic
// substitute for the source's cooperative pause()/resume() (spec §9):
// there is no explicit backpressure signal, just a context a caller can
// cancel to unblock a pending wait, exactly as spec §5's "transport
// error wakes every waiter" describes.
func (c *Connection) readChunk(ctx context.Context) ([]byte, error) {
	type result struct {
		n   int
		err error
	}
	buf := make([]byte, readChunkSize)
	done := make(chan result, 1)
	go func() {
		n, err := c.transport.Read(buf)
		done <- result{n, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, newTransportError(res.err)
		}
		return buf[:res.n], nil
	case <-ctx.Done():
		_ = c.transport.Close()
		<-done
		return nil, newTransportError(ctx.Err())
	}
}

// waitForMessage blocks until a complete frame is available in the
// read buffer, feeding it from the transport as needed.
func (c *Connection) waitForMessage(ctx context.Context) error {
	for {
		if c.reader.TakeMessage() {
			return nil
		}
		chunk, err := c.readChunk(ctx)
		if err != nil {
			c.setClosed()
			return err
		}
		c.reader.Feed(chunk)
	}
}

func (c *Connection) sendFrame() error {
	out, err := c.writer.Unwrap()
	if err != nil {
		return newBufferError(err)
	}
	c.writer.Reset()
	if len(out) == 0 {
		return nil
	}
	if _, err := c.transport.Write(out); err != nil {
		c.setClosed()
		return newTransportError(err)
	}
	return nil
}
