package views

import (
	"context"

	"github.com/rogerio-castellano/expiry-tracker/internal/expiry"
	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/repo"
)

type Dashboard struct {
	Stats         Stats                 `json:"stats"`
	Critical      []BatchView           `json:"criticalBatches"`
	Recent        []BatchView           `json:"recentBatches"`
	RecentHistory []models.HistoryEntry `json:"recentHistory"`
}

// BatchList is a status partition together with its summed quantity.
type BatchList struct {
	Batches       []BatchView `json:"batches"`
	TotalQuantity int         `json:"totalQuantity"`
}

// Engine loads the current snapshot from the store and applies the view functions.
type Engine struct {
	store      *repo.Store
	classifier *expiry.Classifier
}

func NewEngine(store *repo.Store, classifier *expiry.Classifier) *Engine {
	return &Engine{store: store, classifier: classifier}
}

func (e *Engine) Classifier() *expiry.Classifier {
	return e.classifier
}

func (e *Engine) Dashboard(ctx context.Context) (Dashboard, error) {
	products, err := e.store.Products(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	batches, err := e.store.Batches(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	history, err := e.store.History(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Stats:         DashboardStats(products, batches, e.classifier),
		Critical:      CriticalBatches(batches, e.classifier),
		Recent:        RecentBatches(batches, e.classifier),
		RecentHistory: RecentHistory(history, DashboardHistory),
	}, nil
}

func (e *Engine) Warning(ctx context.Context) (BatchList, error) {
	return e.partition(ctx, WarningBatches)
}

func (e *Engine) Expired(ctx context.Context) (BatchList, error) {
	return e.partition(ctx, ExpiredBatches)
}

func (e *Engine) partition(ctx context.Context, fn func([]models.Batch, *expiry.Classifier) []BatchView) (BatchList, error) {
	batches, err := e.store.Batches(ctx)
	if err != nil {
		return BatchList{}, err
	}
	list := fn(batches, e.classifier)
	return BatchList{Batches: list, TotalQuantity: ViewQuantity(list)}, nil
}

// Batches annotates batches, sorted soonest expiry first.
func (e *Engine) Batches(batches []models.Batch) []BatchView {
	out := Annotate(batches, e.classifier)
	sortByDays(out)
	return out
}

// Summaries loads all batches and summarizes the given products.
func (e *Engine) Summaries(ctx context.Context, products []models.Product) ([]ProductSummary, error) {
	batches, err := e.store.Batches(ctx)
	if err != nil {
		return nil, err
	}
	return ProductSummaries(products, batches, e.classifier), nil
}

func (e *Engine) History(ctx context.Context, f HistoryFilter) ([]models.HistoryEntry, error) {
	history, err := e.store.History(ctx)
	if err != nil {
		return nil, err
	}
	return FilterHistory(history, f), nil
}
