package eventbus

// Bus events. Keep list sorted A-Z.
const (
	EventDocumentChanged  Event = "document.changed"
	EventDocumentOpened   Event = "document.opened"
	EventDocumentSaved    Event = "document.saved"
	EventSourceMapRebuilt Event = "sourcemap.rebuilt"
)

// DocumentOpenedPayload is emitted when a file is opened in the editor.
type DocumentOpenedPayload struct {
	Path string
}

// DocumentChangedPayload is emitted when the buffer content changes.
type DocumentChangedPayload struct {
	Path  string
	Bytes int
}

// DocumentSavedPayload is emitted when the buffer is written to disk.
type DocumentSavedPayload struct {
	Path  string
	Bytes int
}

// SourceMapRebuiltPayload is emitted after each annotation pass.
type SourceMapRebuiltPayload struct {
	Path    string
	Entries int
}

// PublishDocumentOpened publishes a document.opened event.
func (bus *EventBus) PublishDocumentOpened(p DocumentOpenedPayload) {
	bus.send(EventDocumentOpened, p)
}

// SubscribeDocumentOpened registers a handler for document.opened events.
func (bus *EventBus) SubscribeDocumentOpened(fn func(DocumentOpenedPayload)) {
	bus.subscribe(EventDocumentOpened, func(payload any) {
		if p, ok := payload.(DocumentOpenedPayload); ok {
			fn(p)
		}
	})
}

// PublishDocumentChanged publishes a document.changed event.
func (bus *EventBus) PublishDocumentChanged(p DocumentChangedPayload) {
	bus.send(EventDocumentChanged, p)
}

// SubscribeDocumentChanged registers a handler for document.changed events.
func (bus *EventBus) SubscribeDocumentChanged(fn func(DocumentChangedPayload)) {
	bus.subscribe(EventDocumentChanged, func(payload any) {
		if p, ok := payload.(DocumentChangedPayload); ok {
			fn(p)
		}
	})
}

// PublishDocumentSaved publishes a document.saved event.
func (bus *EventBus) PublishDocumentSaved(p DocumentSavedPayload) {
	bus.send(EventDocumentSaved, p)
}

// SubscribeDocumentSaved registers a handler for document.saved events.
func (bus *EventBus) SubscribeDocumentSaved(fn func(DocumentSavedPayload)) {
	bus.subscribe(EventDocumentSaved, func(payload any) {
		if p, ok := payload.(DocumentSavedPayload); ok {
			fn(p)
		}
	})
}

// PublishSourceMapRebuilt publishes a sourcemap.rebuilt event.
func (bus *EventBus) PublishSourceMapRebuilt(p SourceMapRebuiltPayload) {
	bus.send(EventSourceMapRebuilt, p)
}

// SubscribeSourceMapRebuilt registers a handler for sourcemap.rebuilt events.
func (bus *EventBus) SubscribeSourceMapRebuilt(fn func(SourceMapRebuiltPayload)) {
	bus.subscribe(EventSourceMapRebuilt, func(payload any) {
		if p, ok := payload.(SourceMapRebuiltPayload); ok {
			fn(p)
		}
	})
}

// RegisterDebugLogging subscribes a debug trace for every event type.
func (bus *EventBus) RegisterDebugLogging() {
	bus.SubscribeDocumentOpened(func(p DocumentOpenedPayload) {
		bus.log.Debug().Str("path", p.Path).Msg("document opened")
	})
	bus.SubscribeDocumentChanged(func(p DocumentChangedPayload) {
		bus.log.Debug().Str("path", p.Path).Int("bytes", p.Bytes).Msg("document changed")
	})
	bus.SubscribeDocumentSaved(func(p DocumentSavedPayload) {
		bus.log.Debug().Str("path", p.Path).Int("bytes", p.Bytes).Msg("document saved")
	})
	bus.SubscribeSourceMapRebuilt(func(p SourceMapRebuiltPayload) {
		bus.log.Debug().Str("path", p.Path).Int("entries", p.Entries).Msg("source map rebuilt")
	})
}
