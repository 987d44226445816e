package edgedb

import (
	"context"

	"github.com/edgedb/edgedb-go/internal/codec"
	"github.com/edgedb/edgedb-go/internal/protocol"
)

// Cardinality selects the row-count policy of a query: One expects
// exactly one row and errors otherwise, Many returns a (possibly
// empty) list.
type Cardinality int

const (
	CardinalityMany Cardinality = iota
	CardinalityOne
)

// preparedQuery holds the codecs and cardinality negotiated for one
// query text, keyed implicitly by that text at the call site — this
// core does not cache statements across calls (Parse runs on every
// call, Describe only when the registry lacks a codec), matching the
// source's lack of a statement cache.
type preparedQuery struct {
	cardinality protocol.Cardinality
	inputID     codec.ID
	outputID    codec.ID
	inputCodec  codec.Codec
	outputCodec codec.Codec
}

// FetchAll runs query and returns every result row. args is encoded by
// the negotiated input codec as a positional tuple; an empty tuple
// codec accepts zero args.
func (c *Connection) FetchAll(ctx context.Context, query string, args ...any) ([]any, error) {
	return c.run(ctx, query, args, false, CardinalityMany)
}

// FetchOne runs query and returns its single result row. It is an
// error for the query to produce zero or more than one row.
func (c *Connection) FetchOne(ctx context.Context, query string, args ...any) (any, error) {
	rows, err := c.run(ctx, query, args, false, CardinalityOne)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, newProtocolError("expected exactly one result row", codec.ErrCardinality)
	}
	return rows[0], nil
}

// FetchAllJSON runs query in JSON mode and returns every row as a raw
// JSON-encoded string.
func (c *Connection) FetchAllJSON(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := c.run(ctx, query, args, true, CardinalityMany)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		switch v := r.(type) {
		case string:
			out[i] = v
		case []byte:
			out[i] = string(v)
		default:
			return nil, newProtocolError("JSON-mode row did not decode to a string", nil)
		}
	}
	return out, nil
}

// FetchOneJSON runs query in JSON mode and returns its single result
// row unwrapped from the list the wire format always returns.
func (c *Connection) FetchOneJSON(ctx context.Context, query string, args ...any) (string, error) {
	rows, err := c.FetchAllJSON(ctx, query, args...)
	if err != nil {
		return "", err
	}
	if len(rows) != 1 {
		return "", newProtocolError("expected exactly one result row", codec.ErrCardinality)
	}
	return rows[0], nil
}

func (c *Connection) run(ctx context.Context, query string, args []any, jsonMode bool, card Cardinality) ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == protocol.Closed {
		return nil, ErrConnectionClosed
	}
	if c.phase != protocol.Ready {
		return nil, ErrConnectionBusy
	}
	c.phase = protocol.Busy

	pq, err := c.parse(ctx, query, jsonMode, card)
	if err != nil {
		return nil, c.recoverOrClose(err)
	}
	if pq.inputCodec == nil || pq.outputCodec == nil {
		if err := c.describe(ctx, pq); err != nil {
			return nil, c.recoverOrClose(err)
		}
	}
	rows, err := c.execute(ctx, pq, args)
	if err != nil {
		return nil, c.recoverOrClose(err)
	}
	c.phase = protocol.Ready
	return rows, nil
}

// recoverOrClose implements spec §7's propagation policy: a ServerError
// leaves the connection usable once ReadyForCommand has been drained
// (the read loops that produce these errors always drain to Z before
// returning), so only buffer/protocol/transport failures are fatal.
func (c *Connection) recoverOrClose(err error) error {
	if _, ok := err.(*ServerError); ok {
		c.phase = protocol.Ready
		return err
	}
	c.setClosed()
	return err
}

func (c *Connection) ioFormat(jsonMode bool) protocol.IOFormat {
	if jsonMode {
		return protocol.IOFormatJSON
	}
	return protocol.IOFormatBinary
}

func (c *Connection) cardinalityByte(card Cardinality) protocol.Cardinality {
	if card == CardinalityOne {
		return protocol.CardinalityOne
	}
	return protocol.CardinalityMany
}

// parse sends Parse+Sync and reads until ReadyForCommand, returning
// the negotiated cardinality and type ids. If the registry already
// holds codecs for those ids, they're attached directly and describe
// is skipped (spec §4.3.3 step 3).
func (c *Connection) parse(ctx context.Context, query string, jsonMode bool, card Cardinality) (*preparedQuery, error) {
	if err := c.writer.BeginMessage(protocol.TagParse); err != nil {
		return nil, newBufferError(err)
	}
	_ = c.writer.WriteHeaders(nil)
	_ = c.writer.WriteU8(byte(c.ioFormat(jsonMode)))
	_ = c.writer.WriteU8(byte(c.cardinalityByte(card)))
	_ = c.writer.WriteString("") // statement name, always anonymous
	_ = c.writer.WriteString(query)
	if err := c.writer.EndMessage(); err != nil {
		return nil, newBufferError(err)
	}
	if err := c.writer.WriteSync(); err != nil {
		return nil, newBufferError(err)
	}
	if err := c.sendFrame(); err != nil {
		return nil, err
	}

	pq := &preparedQuery{}
	var pendingErr error
	for {
		if err := c.waitForMessage(ctx); err != nil {
			return nil, err
		}
		switch tag := c.reader.GetMessageType(); tag {
		case protocol.TagPrepareComplete:
			if err := c.readPrepareComplete(pq); err != nil {
				return nil, err
			}
		case protocol.TagErrorResponse:
			pendingErr = c.readServerError()
		case protocol.TagReadyForCommand:
			if err := c.handleReadyForCommand(); err != nil {
				return nil, err
			}
			if pendingErr != nil {
				return nil, pendingErr
			}
			return pq, nil
		default:
			if err := c.handleFallthrough(tag); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Connection) readPrepareComplete(pq *preparedQuery) error {
	if _, err := c.reader.ReadHeaders(); err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	cardByte, err := c.reader.ReadU8()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	inID, err := c.reader.ReadUUID()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	outID, err := c.reader.ReadUUID()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.reader.FinishMessage()

	pq.cardinality = protocol.Cardinality(cardByte)
	pq.inputID = codec.ID(inID)
	pq.outputID = codec.ID(outID)
	if ic, ok := c.registry.Get(pq.inputID); ok {
		pq.inputCodec = ic
	}
	if oc, ok := c.registry.Get(pq.outputID); ok {
		pq.outputCodec = oc
	}
	return nil
}

// describe sends DescribeStatement+Sync and builds whichever of the
// input/output codecs parse didn't already find in the registry.
func (c *Connection) describe(ctx context.Context, pq *preparedQuery) error {
	if err := c.writer.BeginMessage(protocol.TagDescribeStatement); err != nil {
		return newBufferError(err)
	}
	_ = c.writer.WriteHeaders(nil)
	_ = c.writer.WriteU8(byte(protocol.DescribeAspectStatementType))
	_ = c.writer.WriteString("")
	if err := c.writer.EndMessage(); err != nil {
		return newBufferError(err)
	}
	if err := c.writer.WriteSync(); err != nil {
		return newBufferError(err)
	}
	if err := c.sendFrame(); err != nil {
		return err
	}

	var pendingErr error
	for {
		if err := c.waitForMessage(ctx); err != nil {
			return err
		}
		switch tag := c.reader.GetMessageType(); tag {
		case protocol.TagCommandDataDescription:
			if err := c.readCommandDataDescription(pq); err != nil {
				return err
			}
		case protocol.TagErrorResponse:
			pendingErr = c.readServerError()
		case protocol.TagReadyForCommand:
			if err := c.handleReadyForCommand(); err != nil {
				return err
			}
			return pendingErr
		default:
			if err := c.handleFallthrough(tag); err != nil {
				return err
			}
		}
	}
}

func (c *Connection) readCommandDataDescription(pq *preparedQuery) error {
	if _, err := c.reader.ReadHeaders(); err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	cardByte, err := c.reader.ReadU8()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	pq.cardinality = protocol.Cardinality(cardByte)

	inID, err := c.reader.ReadUUID()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	inDesc, err := c.reader.ReadLenPrefixedBytes()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	outID, err := c.reader.ReadUUID()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	outDesc, err := c.reader.ReadLenPrefixedBytes()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.reader.FinishMessage()

	pq.inputID = codec.ID(inID)
	pq.outputID = codec.ID(outID)

	if ic, ok := c.registry.Get(pq.inputID); ok {
		pq.inputCodec = ic
	} else {
		ic, err := codec.BuildCodec(c.registry, inDesc)
		if err != nil {
			return newProtocolError("failed to build input codec", err)
		}
		c.registry.Put(pq.inputID, ic)
		pq.inputCodec = ic
	}

	if oc, ok := c.registry.Get(pq.outputID); ok {
		pq.outputCodec = oc
	} else {
		oc, err := codec.BuildCodec(c.registry, outDesc)
		if err != nil {
			return newProtocolError("failed to build output codec", err)
		}
		c.registry.Put(pq.outputID, oc)
		pq.outputCodec = oc
	}
	return nil
}

func (c *Connection) execute(ctx context.Context, pq *preparedQuery, args []any) ([]any, error) {
	if err := c.writer.BeginMessage(protocol.TagExecute); err != nil {
		return nil, newBufferError(err)
	}
	_ = c.writer.WriteHeaders(nil)
	_ = c.writer.WriteString("")
	wb, err := c.writer.Buffer()
	if err != nil {
		return nil, newBufferError(err)
	}
	if err := pq.inputCodec.Encode(wb, args); err != nil {
		return nil, newProtocolError("failed to encode query arguments", err)
	}
	if err := c.writer.EndMessage(); err != nil {
		return nil, newBufferError(err)
	}
	if err := c.writer.WriteSync(); err != nil {
		return nil, newBufferError(err)
	}
	if err := c.sendFrame(); err != nil {
		return nil, err
	}

	var rows []any
	var pendingErr error
	for {
		if err := c.waitForMessage(ctx); err != nil {
			return nil, err
		}
		switch tag := c.reader.GetMessageType(); tag {
		case protocol.TagData:
			row, err := c.readDataRow(pq)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		case protocol.TagCommandComplete:
			if err := c.readCommandComplete(); err != nil {
				return nil, err
			}
		case protocol.TagErrorResponse:
			pendingErr = c.readServerError()
		case protocol.TagReadyForCommand:
			if err := c.handleReadyForCommand(); err != nil {
				return nil, err
			}
			if pendingErr != nil {
				return nil, pendingErr
			}
			return rows, nil
		default:
			if err := c.handleFallthrough(tag); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Connection) readDataRow(pq *preparedQuery) (any, error) {
	if _, err := c.reader.ReadU16(); err != nil {
		c.reader.DiscardMessage()
		return nil, newBufferError(err)
	}
	if _, err := c.reader.ReadU32(); err != nil {
		c.reader.DiscardMessage()
		return nil, newBufferError(err)
	}
	flat := c.reader.ConsumeMessageInto()
	row, err := pq.outputCodec.Decode(flat)
	if err != nil {
		return nil, newProtocolError("failed to decode result row", err)
	}
	return row, nil
}

func (c *Connection) readCommandComplete() error {
	if _, err := c.reader.ReadHeaders(); err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	status, err := c.reader.ReadString()
	if err != nil {
		c.reader.DiscardMessage()
		return newBufferError(err)
	}
	c.reader.FinishMessage()
	c.lastStatus = status
	return nil
}
