package edgedb

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"strconv"
)

// Transport is the network collaborator spec §6 names as external to
// this core: a connect/read/write/close byte-stream, optionally
// TLS-wrapped. It is the Go-idiomatic realization of the source's
// event-driven stream API (on('data')/write()/pause()/resume()): a
// plain blocking io.Reader/io.Writer pair read through
// Connection.readChunk's per-call goroutine instead of callbacks, per
// the design upgrade noted in spec §9.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
	SetNoDelay(bool) error
}

type tcpTransport struct {
	conn net.Conn
}

func (t *tcpTransport) Read(p []byte) (int, error)  { return t.conn.Read(p) }
func (t *tcpTransport) Write(p []byte) (int, error) { return t.conn.Write(p) }
func (t *tcpTransport) Close() error                { return t.conn.Close() }

func (t *tcpTransport) SetNoDelay(v bool) error {
	if tc, ok := t.conn.(*net.TCPConn); ok {
		return tc.SetNoDelay(v)
	}
	return nil
}

// DialTransport opens a TCP connection to host:port, upgrading to TLS
// when tlsConfig is non-nil, and enables TCP_NODELAY per spec §6's
// set_no_delay(true).
func DialTransport(ctx context.Context, host string, port int, tlsConfig *tls.Config) (Transport, error) {
	dialer := &net.Dialer{}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	var conn net.Conn
	var err error
	if tlsConfig != nil {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, newTransportError(err)
	}

	t := &tcpTransport{conn: conn}
	_ = t.SetNoDelay(true)
	return t, nil
}
