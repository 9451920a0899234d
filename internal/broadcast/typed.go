package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
)

// Decode unmarshals the event payload into T.
func Decode[T any](ev Event) (T, error) {
	var v T
	if ev.Deleted || len(ev.Value) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(ev.Value, &v); err != nil {
		return v, fmt.Errorf("decode %s event: %w", ev.Key, err)
	}
	return v, nil
}

// Watch calls fn for every change of key until ctx is done or the hub
// subscription is closed. Deleted keys are reported with the zero value.
// Payloads that do not decode into T are skipped.
func Watch[T any](ctx context.Context, h *Hub, key string, fn func(value T, deleted bool)) error {
	sub := h.Subscribe(key)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			v, err := Decode[T](ev)
			if err != nil {
				continue
			}
			fn(v, ev.Deleted)
		}
	}
}
