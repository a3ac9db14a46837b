// Package messaging abstracts the broker that fans booking events out
// across server nodes. Each node publishes every wire frame it accepts
// and replays frames published by its peers to the local connections.
package messaging

import (
	"context"
)

// Broker is a raw frame pub/sub surface. Frames are opaque here; the
// hub validates them before publishing.
type Broker interface {
	Publish(ctx context.Context, channel string, frame []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// NopBroker satisfies Broker for single-node deployments: publishes go
// nowhere and the subscription never yields.
type NopBroker struct{}

func (NopBroker) Publish(ctx context.Context, channel string, frame []byte) error {
	return nil
}

func (NopBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (NopBroker) Close() error { return nil }
