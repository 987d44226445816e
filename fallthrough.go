package edgedb

import (
	"github.com/edgedb/edgedb-go/internal/protocol"
)

// handleFallthrough applies spec §4.3.4 to any frame tag not explicitly
// matched by the caller's current phase: ParameterStatus updates the
// server-settings map, LogMessage is emitted through the logging hook,
// and everything else is a protocol error that closes the connection.
// It assumes the caller already confirmed TakeMessage() is ready and
// consumes the current message before returning.
func (c *Connection) handleFallthrough(tag protocol.Tag) error {
	switch tag {
	case protocol.TagParameterStatus:
		return c.handleParameterStatus()
	case protocol.TagLogMessage:
		return c.handleLogMessage()
	default:
		c.reader.DiscardMessage()
		c.setClosed()
		return newProtocolError("unexpected frame in fallthrough handler", nil)
	}
}

func (c *Connection) handleParameterStatus() error {
	name, err := c.reader.ReadString()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	value, err := c.reader.ReadString()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.serverSettings[name] = value
	c.reader.FinishMessage()
	return nil
}

func (c *Connection) handleLogMessage() error {
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
	// headers follow but the core has no subscriber for them yet.
	c.reader.DiscardMessage()

	entry := c.logger.WithFields(logFields{"severity": severity, "code": code})
	if severity >= logSeverityWarning {
		entry.Warn(message)
	} else {
		entry.Debug(message)
	}
	return nil
}

const logSeverityWarning = 60

type logFields = map[string]any
