package client

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSClient is a thin wrapper around a NATS connection.
type NATSClient struct {
	conn *nats.Conn
}

// NewNATSClient connects to the given NATS URL with indefinite reconnects.
func NewNATSClient(url, name string) (*NATSClient, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSClient{conn: conn}, nil
}

// Publish sends a message on the subject.
func (c *NATSClient) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.conn.Publish(subject, data)
}

// Close drains and closes the connection.
func (c *NATSClient) Close() {
	_ = c.conn.Drain()
}
