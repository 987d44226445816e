package edgedb

import (
	"context"

	"github.com/edgedb/edgedb-go/internal/protocol"
)

// protocolMajorVersion and protocolMinorVersion are the version this
// core proposes in ClientHandshake and requires back from the server
// (spec §4.3.2's "reject if differs from {1, 0}").
const (
	protocolMajorVersion uint16 = 1
	protocolMinorVersion uint16 = 0
)

// handshake drives the connection from TCPConnected to Ready: it sends
// ClientHandshake and AuthenticationRequest, then reads frames until
// ReadyForCommand per spec §4.3.2. user and database are sent verbatim
// in AuthenticationRequest; no credential exchange beyond that happens
// here, since SASL (status codes 10/11/12) is rejected rather than
// carried out — see the Open Questions note in DESIGN.md.
func (c *Connection) handshake(ctx context.Context, user, database string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sendClientHandshake(); err != nil {
		return err
	}
	if err := c.sendAuthenticationRequest(user, database); err != nil {
		return err
	}
	if err := c.sendFrame(); err != nil {
		return err
	}

	for {
		if err := c.waitForMessage(ctx); err != nil {
			return err
		}
		tag := c.reader.GetMessageType()
		switch tag {
		case protocol.TagServerHandshake:
			if err := c.handleServerHandshake(); err != nil {
				return err
			}
		case protocol.TagServerKeyData:
			if err := c.handleServerKeyData(); err != nil {
				return err
			}
		case protocol.TagAuthentication:
			if err := c.handleAuthentication(); err != nil {
				return err
			}
		case protocol.TagErrorResponse:
			return c.handleHandshakeError()
		case protocol.TagReadyForCommand:
			return c.handleReadyForCommand()
		default:
			if err := c.handleFallthrough(tag); err != nil {
				return err
			}
		}
	}
}

func (c *Connection) sendClientHandshake() error {
	if err := c.writer.BeginMessage(protocol.TagClientHandshake); err != nil {
		return newBufferError(err)
	}
	_ = c.writer.WriteU16(protocolMajorVersion)
	_ = c.writer.WriteU16(protocolMinorVersion)
	_ = c.writer.WriteU16(0) // extension header count
	_ = c.writer.WriteU16(0) // param count
	if err := c.writer.EndMessage(); err != nil {
		return newBufferError(err)
	}
	return nil
}

func (c *Connection) sendAuthenticationRequest(user, database string) error {
	if err := c.writer.BeginMessage(protocol.TagAuthenticationRequest); err != nil {
		return newBufferError(err)
	}
	_ = c.writer.WriteString(user)
	_ = c.writer.WriteString(database)
	if err := c.writer.EndMessage(); err != nil {
		return newBufferError(err)
	}
	return nil
}

// handleServerHandshake reads the server's negotiated major/minor and
// rejects anything but {1, 0}.
func (c *Connection) handleServerHandshake() error {
	major, err := c.reader.ReadU16()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	minor, err := c.reader.ReadU16()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.reader.DiscardMessage()

	if major != protocolMajorVersion || minor != protocolMinorVersion {
		c.setClosed()
		return newProtocolError("unsupported protocol version negotiated by server", nil)
	}
	return nil
}

// handleServerKeyData stores the 32-bit server secret used to
// authenticate out-of-band requests (e.g. Cancel); this core exposes
// no such request yet, so the secret is retained but otherwise unused.
func (c *Connection) handleServerKeyData() error {
	key, err := c.reader.ReadLenPrefixedPayload(4)
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.serverSecret = key
	c.reader.FinishMessage()
	return nil
}

func (c *Connection) handleAuthentication() error {
	status, err := c.reader.ReadU32()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.reader.DiscardMessage()

	switch status {
	case protocol.AuthStatusOK:
		return nil
	case protocol.AuthStatusSASL, protocol.AuthStatusSASLCont, protocol.AuthStatusSASLFinal:
		c.setClosed()
		return newProtocolError("server requested a SASL authentication flow, which this client does not implement", nil)
	default:
		c.setClosed()
		return newProtocolError("unrecognized authentication status code", nil)
	}
}

func (c *Connection) handleHandshakeError() error {
	serverErr := c.readServerError()
	c.setClosed()
	return serverErr
}

func (c *Connection) handleReadyForCommand() error {
	headers, err := c.reader.ReadHeaders()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	_ = headers
	status, err := c.reader.ReadU8()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.reader.FinishMessage()

	c.transactionStatus = protocol.ParseTransactionStatus(status)
	c.phase = protocol.Ready
	return nil
}

// readServerError parses the body of an ErrorResponse frame into a
// *ServerError and discards the message. Shared by the handshake and
// query read loops.
func (c *Connection) readServerError() error {
	severity, err := c.reader.ReadU8()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	code, err := c.reader.ReadU32()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	message, err := c.reader.ReadString()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	attrs, err := c.reader.ReadHeaders()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.reader.FinishMessage()

	return &ServerError{
		Severity:   severityName(severity),
		Code:       code,
		Message:    message,
		Attributes: attrs,
	}
}

func severityName(b byte) string {
	switch b {
	case 0:
		return "OK"
	case 60:
		return "Warning"
	case 120:
		return "Error"
	case 200:
		return "Fatal"
	default:
		return "Unknown"
	}
}
