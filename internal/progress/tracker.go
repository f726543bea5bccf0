// Package progress detects collection deltas that newly unlock archetypes
// and emits notifications through the event dispatcher.
package progress

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/deckwise/deck-advisor/internal/analyzer"
	"github.com/deckwise/deck-advisor/internal/events"
	"github.com/deckwise/deck-advisor/internal/format"
)

// Notification names the archetypes a collection change newly unlocked.
type Notification struct {
	CollectionID string   `json:"collectionId"`
	Format       string   `json:"format"`
	Unlocked     []string `json:"unlocked"`
	ViableCount  int      `json:"viableCount"`
}

// snapshot is the previously observed viable-archetype state for one
// (collection, format) pair.
type snapshot struct {
	count int
	names map[string]bool
}

// Tracker holds per-(collection, format) snapshots and diffs new analyzer
// runs against them. Safe for concurrent use; it is the only stateful piece
// of the pipeline besides the cache.
type Tracker struct {
	analyzer   *analyzer.Analyzer
	dispatcher *events.Dispatcher

	mu        sync.Mutex
	snapshots map[string]snapshot
}

// NewTracker creates a tracker. The dispatcher may be nil, in which case
// notifications are only returned, never broadcast.
func NewTracker(a *analyzer.Analyzer, dispatcher *events.Dispatcher) *Tracker {
	return &Tracker{
		analyzer:   a,
		dispatcher: dispatcher,
		snapshots:  make(map[string]snapshot),
	}
}

// Observe re-runs the buildable-deck analysis for the pair and diffs it
// against the prior snapshot. The very first observation records a baseline
// and never notifies; later observations notify only when the viable count
// increased, and name exactly the newly viable templates. Removals never
// unlock anything.
func (t *Tracker) Observe(ctx context.Context, collectionID string, f format.Format) (*Notification, error) {
	adapter, err := format.ForFormat(f)
	if err != nil {
		return nil, err
	}

	viable, err := t.analyzer.ViableArchetypes(ctx, collectionID, adapter)
	if err != nil {
		return nil, fmt.Errorf("analyze viable archetypes: %w", err)
	}

	current := snapshot{count: len(viable), names: make(map[string]bool, len(viable))}
	for _, v := range viable {
		current.names[v.TemplateName] = true
	}

	key := collectionID + "|" + string(f)

	t.mu.Lock()
	prior, seen := t.snapshots[key]
	t.snapshots[key] = current
	t.mu.Unlock()

	if !seen {
		// Initial snapshot, not a change.
		return nil, nil
	}
	if current.count <= prior.count {
		return nil, nil
	}

	notification := &Notification{
		CollectionID: collectionID,
		Format:       string(f),
		ViableCount:  current.count,
	}
	for _, v := range viable {
		if !prior.names[v.TemplateName] {
			notification.Unlocked = append(notification.Unlocked, v.TemplateName)
		}
	}

	if t.dispatcher != nil {
		t.dispatcher.Dispatch(events.Event{
			Type: events.TypeArchetypeUnlocked,
			Data: events.ArchetypeUnlockedEvent{
				CollectionID: notification.CollectionID,
				Format:       notification.Format,
				Unlocked:     notification.Unlocked,
				ViableCount:  notification.ViableCount,
			},
			Context: ctx,
		})
	}
	return notification, nil
}

// OnEvent consumes collection:changed events and observes every supported
// format for the mutated collection.
func (t *Tracker) OnEvent(event events.Event) error {
	change, ok := events.TypedData[events.CollectionChangeEvent](event)
	if !ok {
		return nil
	}
	ctx := event.Context
	if ctx == nil {
		ctx = context.Background()
	}
	for _, f := range format.Supported() {
		if _, err := t.Observe(ctx, change.CollectionID, f); err != nil {
			log.Printf("[ProgressTracker] observe %s/%s: %v", change.CollectionID, f, err)
		}
	}
	return nil
}

// Name returns the observer name for the dispatcher log.
func (t *Tracker) Name() string { return "ProgressTracker" }

// ShouldHandle subscribes the tracker to collection changes only.
func (t *Tracker) ShouldHandle(eventType string) bool {
	return eventType == events.TypeCollectionChanged
}
