package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event delivery")
	}
}

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx)

	done := make(chan struct{})
	bus.SubscribeDocumentSaved(func(p DocumentSavedPayload) {
		assert.Equal(t, "a.md", p.Path)
		assert.Equal(t, 12, p.Bytes)
		close(done)
	})

	bus.PublishDocumentSaved(DocumentSavedPayload{Path: "a.md", Bytes: 12})
	waitFor(t, done)
}

func TestEventBus_EventsDoNotCrossTypes(t *testing.T) {
	bus := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx)

	saved := make(chan struct{})
	bus.SubscribeDocumentOpened(func(DocumentOpenedPayload) {
		t.Error("opened handler fired for saved event")
	})
	bus.SubscribeDocumentSaved(func(DocumentSavedPayload) {
		close(saved)
	})

	bus.PublishDocumentSaved(DocumentSavedPayload{Path: "a.md"})
	waitFor(t, saved)
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := New(1)
	// No Start: nothing drains the channel.

	bus.PublishSourceMapRebuilt(SourceMapRebuiltPayload{Entries: 1})
	bus.PublishSourceMapRebuilt(SourceMapRebuiltPayload{Entries: 2})

	assert.Equal(t, 1, bus.Dropped())
}

func TestEventBus_SubscriberPanicDoesNotStopDispatch(t *testing.T) {
	bus := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx)

	done := make(chan struct{})
	bus.SubscribeDocumentChanged(func(DocumentChangedPayload) {
		panic("boom")
	})
	bus.SubscribeDocumentChanged(func(DocumentChangedPayload) {
		close(done)
	})

	bus.PublishDocumentChanged(DocumentChangedPayload{Path: "a.md"})
	waitFor(t, done)

	// The bus keeps dispatching after a panic.
	second := make(chan struct{})
	bus.SubscribeSourceMapRebuilt(func(SourceMapRebuiltPayload) {
		close(second)
	})
	bus.PublishSourceMapRebuilt(SourceMapRebuiltPayload{Entries: 3})
	waitFor(t, second)
}

func TestEventBus_DefaultBuffer(t *testing.T) {
	bus := New(0)
	require.NotNil(t, bus)
	for i := 0; i < 10; i++ {
		bus.PublishDocumentChanged(DocumentChangedPayload{})
	}
	assert.Zero(t, bus.Dropped())
}
