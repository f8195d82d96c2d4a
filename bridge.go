package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// HostBridge is the note storage the editor talks to. Every streamed note is
// a full replacement of the document; saves are fire-and-forget.
type HostBridge interface {
	OnNoteStreamed(fn func(noteText string))
	SaveNote(noteText string, onComplete func(error))
}

// NoteBridge is a HostBridge backed by local storage.
type NoteBridge interface {
	HostBridge
	// Stream delivers the stored text of the note to the registered callback.
	Stream(ctx context.Context) error
	List(ctx context.Context) ([]string, error)
	// Close writes pending saves and releases the store.
	Close() error
}

type noteStore interface {
	read(ctx context.Context, note string) (string, error)
	write(ctx context.Context, note, text string) error
	list(ctx context.Context) ([]string, error)
	close() error
}

type storeBridge struct {
	store noteStore
	note  string
	saver *debouncedSaver

	mu       sync.Mutex
	listener func(string)
}

func newStoreBridge(store noteStore, note string, cfg *Config) *storeBridge {
	b := &storeBridge{store: store, note: note}
	b.saver = newDebouncedSaver(cfg.SaveDebounce, func(ctx context.Context, text string) error {
		return b.store.write(ctx, b.note, text)
	})
	return b
}

func (b *storeBridge) OnNoteStreamed(fn func(noteText string)) {
	b.mu.Lock()
	b.listener = fn
	b.mu.Unlock()
}

func (b *storeBridge) SaveNote(noteText string, onComplete func(error)) {
	b.saver.Notify(noteText, onComplete)
}

func (b *storeBridge) Stream(ctx context.Context) error {
	text, err := b.store.read(ctx, b.note)
	if err != nil {
		return fmt.Errorf("read note %q: %w", b.note, err)
	}
	b.mu.Lock()
	fn := b.listener
	b.mu.Unlock()
	if fn != nil {
		fn(text)
	}
	return nil
}

func (b *storeBridge) List(ctx context.Context) ([]string, error) {
	return b.store.list(ctx)
}

func (b *storeBridge) Close() error {
	b.saver.Flush()
	return b.store.close()
}

// openStore opens the note store selected by cfg.Store.
func openStore(ctx context.Context, cfg *Config) (noteStore, error) {
	switch cfg.Store {
	case StoreSQLite:
		return openSQLiteStore(ctx, cfg.SQLitePath())
	case StoreFile, "":
		return newFileStore(cfg.GetSavePath("")), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// openBridge opens the configured store for one note.
func openBridge(ctx context.Context, cfg *Config, note string) (NoteBridge, error) {
	if err := validateNoteName(note); err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newStoreBridge(store, note, cfg), nil
}

func validateNoteName(note string) error {
	switch {
	case strings.TrimSpace(note) == "":
		return fmt.Errorf("note name is empty")
	case strings.ContainsAny(note, `/\`), note == ".", note == "..":
		return fmt.Errorf("invalid note name %q", note)
	}
	return nil
}
