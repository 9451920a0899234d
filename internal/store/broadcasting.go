package store

import (
	"context"
	"encoding/json"

	"docusafe/internal/broadcast"
)

// Broadcasting wraps a Store and publishes an event after every successful
// write. The write is applied first; subscribers then re-read or decode the
// payload carried by the event.
type Broadcasting struct {
	Store
	pub broadcast.Publisher
}

// NewBroadcasting decorates s so that writes are announced on pub.
func NewBroadcasting(s Store, pub broadcast.Publisher) *Broadcasting {
	return &Broadcasting{Store: s, pub: pub}
}

// Set stores value and publishes it.
func (b *Broadcasting) Set(ctx context.Context, key string, value []byte) error {
	if err := b.Store.Set(ctx, key, value); err != nil {
		return err
	}
	ev := broadcast.Event{Key: key}
	if json.Valid(value) {
		ev.Value = append(json.RawMessage(nil), value...)
	}
	b.pub.Publish(ev)
	return nil
}

// Delete removes key and publishes a deletion.
func (b *Broadcasting) Delete(ctx context.Context, key string) error {
	if err := b.Store.Delete(ctx, key); err != nil {
		return err
	}
	b.pub.Publish(broadcast.Event{Key: key, Deleted: true})
	return nil
}

// Ping forwards to the wrapped store.
func (b *Broadcasting) Ping(ctx context.Context) error {
	return Ping(ctx, b.Store)
}
