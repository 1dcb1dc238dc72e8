// Package watcher notices on-disk changes to the edited SVG document so the
// serving layers can reload it. Editors typically write via rename, so the
// watch covers the document's directory and filters to the document path.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/svgfx/fegraph/pkg/logging"
)

// ChangeEvent represents a batch of changes to the watched document
type ChangeEvent struct {
	Path      string
	Ops       []fsnotify.Op
	Timestamp time.Time
}

// DocumentWatcher watches one SVG document for changes
type DocumentWatcher struct {
	watcher  *fsnotify.Watcher
	document string // absolute path of the watched file
	events   chan ChangeEvent
	done     chan struct{}
	mu       sync.Mutex
}

// NewDocumentWatcher creates a watcher for the given document path
func NewDocumentWatcher(document string) (*DocumentWatcher, error) {
	abs, err := filepath.Abs(document)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &DocumentWatcher{
		watcher:  watcher,
		document: abs,
		events:   make(chan ChangeEvent, 100),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching for document changes
func (dw *DocumentWatcher) Start(ctx context.Context) error {
	// Watch the directory, not the file: atomic saves replace the inode
	// and a file watch would go stale after the first write.
	dir := filepath.Dir(dw.document)
	if err := dw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info("watching document", "path", dw.document)

	go dw.processEvents(ctx)
	return nil
}

// processEvents filters raw events to the document and batches bursts, so a
// save that lands as several writes produces one change event.
func (dw *DocumentWatcher) processEvents(ctx context.Context) {
	var pending []fsnotify.Op

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		dw.events <- ChangeEvent{
			Path:      dw.document,
			Ops:       pending,
			Timestamp: time.Now(),
		}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			dw.watcher.Close()
			close(dw.events)
			close(dw.done)
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}

			if !dw.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			pending = append(pending, event.Op)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

func (dw *DocumentWatcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == dw.document
}

// Events returns the channel of change events
func (dw *DocumentWatcher) Events() <-chan ChangeEvent {
	return dw.events
}

// Stop stops the watcher
func (dw *DocumentWatcher) Stop() error {
	return dw.watcher.Close()
}
