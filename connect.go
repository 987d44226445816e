package edgedb

import (
	"context"

	"github.com/edgedb/edgedb-go/config"
	"github.com/sirupsen/logrus"
)

// ConnectOption customizes a Connect call beyond what config.Options
// carries — currently just the logging hook (Component G).
type ConnectOption func(*connectSettings)

type connectSettings struct {
	logger *logrus.Entry
}

// WithLogger overrides the *logrus.Entry used for handshake/query log
// messages and config warnings. Defaults to logrus.StandardLogger().
func WithLogger(logger *logrus.Entry) ConnectOption {
	return func(s *connectSettings) { s.logger = logger }
}

// Connect resolves opts into a ResolvedConfig (package config), dials
// the transport, and runs the handshake, returning a Connection in the
// Ready phase. It is the single async entry point spec §9 calls for in
// place of the source's callback/promise duality — callers that need a
// callback style wrap this themselves; there is no second code path
// threaded through the state machine.
func Connect(ctx context.Context, opts config.Options, options ...ConnectOption) (*Connection, error) {
	settings := &connectSettings{logger: logrus.NewEntry(logrus.StandardLogger())}
	for _, opt := range options {
		opt(settings)
	}

	rc, err := config.Resolve(ctx, opts, config.OSEnvironment(), settings.logger)
	if err != nil {
		return nil, err
	}

	t, err := DialTransport(ctx, rc.Host.Value(), rc.Port.Value(), rc.TLSConfig)
	if err != nil {
		return nil, err
	}

	conn := newConnection(t, settings.logger)
	if err := conn.handshake(ctx, rc.User.Value(), rc.Database.Value()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
