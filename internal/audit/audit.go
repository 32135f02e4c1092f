// Package audit appends history entries for product and batch mutations.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/repo"
	"github.com/rogerio-castellano/expiry-tracker/internal/telemetry"
)

// Event describes a mutation to be recorded. ID and timestamp are assigned by the Recorder.
type Event struct {
	EntityType models.EntityType
	EntityID   string
	EntityName string
	Action     models.Action
	Actor      models.Actor
	Changes    string
}

type Recorder struct {
	store   *repo.Store
	now     func() time.Time
	metrics *telemetry.Metrics
}

// NewRecorder builds a Recorder. now defaults to time.Now and metrics may be nil.
func NewRecorder(store *repo.Store, now func() time.Time, metrics *telemetry.Metrics) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{store: store, now: now, metrics: metrics}
}

// Record prepends a new entry to the history and persists it.
func (r *Recorder) Record(ctx context.Context, e Event) (models.HistoryEntry, error) {
	history, err := r.store.History(ctx)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	entry := models.HistoryEntry{
		ID:         uuid.NewString(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		EntityName: e.EntityName,
		Action:     e.Action,
		UserID:     e.Actor.UserID,
		UserName:   e.Actor.UserName,
		Timestamp:  r.now().UTC(),
		Changes:    e.Changes,
	}

	updated := make([]models.HistoryEntry, 0, len(history)+1)
	updated = append(updated, entry)
	updated = append(updated, history...)

	if err := r.store.SaveHistory(ctx, updated); err != nil {
		return models.HistoryEntry{}, fmt.Errorf("recording %s %s: %w", e.EntityType, e.Action, err)
	}

	r.metrics.IncHistoryEntry(string(e.EntityType), string(e.Action))
	return entry, nil
}

// History returns all entries newest first.
func (r *Recorder) History(ctx context.Context) ([]models.HistoryEntry, error) {
	return r.store.History(ctx)
}

// ProductEntityName is the history label of a product.
func ProductEntityName(p models.Product) string {
	return p.Name
}

// BatchEntityName is the history label of a batch.
func BatchEntityName(b models.Batch) string {
	return b.ProductName + " - Lote"
}
