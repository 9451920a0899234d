package store_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docusafe/internal/broadcast"
	"docusafe/internal/logging"
	"docusafe/internal/store"
	"docusafe/internal/store/memory"
)

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }
func (f failingStore) Delete(context.Context, string) error        { return f.err }

func TestValue_DefaultWhenAbsent(t *testing.T) {
	ctx := context.Background()
	v := store.NewValue(memory.New(), store.KeyCategories, func() []string { return []string{"Letters"} }, logging.Discard())

	got, err := v.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Letters"}, got)

	ok, err := v.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValue_RoundTrip(t *testing.T) {
	ctx := context.Background()
	v := store.NewValue[[]string](memory.New(), store.KeyCategories, nil, logging.Discard())

	require.NoError(t, v.Set(ctx, []string{"Letters", "Memos"}))
	got, err := v.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Letters", "Memos"}, got)

	require.NoError(t, v.Delete(ctx))
	got, err = v.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValue_CorruptedJSONFallsBackAndLogs(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Set(ctx, store.KeyLogs, []byte(`{not json`)))

	var buf bytes.Buffer
	v := store.NewValue(s, store.KeyLogs, func() []string { return []string{} }, logging.New(&buf, time.UTC))

	got, err := v.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Contains(t, buf.String(), "store_value_corrupted")
	assert.Contains(t, buf.String(), store.KeyLogs)
}

func TestValue_BackendErrorIsReturned(t *testing.T) {
	boom := errors.New("connection refused")
	v := store.NewValue[[]string](failingStore{err: boom}, store.KeyCategories, nil, logging.Discard())

	_, err := v.Get(context.Background())
	assert.ErrorIs(t, err, boom)

	err = v.Set(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)
}

func TestBroadcasting_PublishesAfterWrite(t *testing.T) {
	ctx := context.Background()
	hub := broadcast.NewHub()
	sub := hub.Subscribe(store.KeyBranding)
	defer sub.Close()

	inner := memory.New()
	s := store.NewBroadcasting(inner, hub)

	require.NoError(t, s.Set(ctx, store.KeyBranding, []byte(`{"departmentName":"Finance"}`)))
	ev := <-sub.C()
	assert.Equal(t, store.KeyBranding, ev.Key)
	assert.JSONEq(t, `{"departmentName":"Finance"}`, string(ev.Value))

	// the write is visible before the event is observed
	raw, err := inner.Get(ctx, store.KeyBranding)
	require.NoError(t, err)
	assert.JSONEq(t, string(ev.Value), string(raw))

	require.NoError(t, s.Delete(ctx, store.KeyBranding))
	ev = <-sub.C()
	assert.True(t, ev.Deleted)
	assert.NoError(t, store.Ping(ctx, s))
}

func TestBroadcasting_NoEventOnFailedWrite(t *testing.T) {
	hub := broadcast.NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	s := store.NewBroadcasting(failingStore{err: errors.New("down")}, hub)
	assert.Error(t, s.Set(context.Background(), store.KeyDocuments, []byte(`[]`)))
	assert.Error(t, s.Delete(context.Background(), store.KeyDocuments))

	select {
	case ev := <-sub.C():
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}
