// Package views derives read-only dashboard data from the stored collections.
// Nothing here is persisted; every call recomputes from the current snapshot.
package views

import (
	"sort"
	"time"

	"github.com/rogerio-castellano/expiry-tracker/internal/expiry"
	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

const (
	// CriticalDays is the exclusive upper bound of days remaining for the critical list.
	CriticalDays = 7
	// ListLimit caps the critical and recent lists.
	ListLimit = 5
	// DashboardHistory is how many history entries the dashboard shows.
	DashboardHistory = 10
)

// BatchView is a batch annotated with its current classification.
type BatchView struct {
	models.Batch
	Status        models.BatchStatus `json:"status"`
	StatusLabel   string             `json:"statusLabel"`
	DaysRemaining int                `json:"daysRemaining"`
}

type Stats struct {
	TotalProducts  int `json:"totalProducts"`
	TotalBatches   int `json:"totalBatches"`
	ValidBatches   int `json:"validBatches"`
	WarningBatches int `json:"warningBatches"`
	ExpiredBatches int `json:"expiredBatches"`
	TotalQuantity  int `json:"totalQuantity"`
}

type ProductSummary struct {
	models.Product
	BatchCount       int                 `json:"batchCount"`
	TotalQuantity    int                 `json:"totalQuantity"`
	WorstStatus      *models.BatchStatus `json:"worstStatus"`
	WorstStatusLabel string              `json:"worstStatusLabel,omitempty"`
	Batches          []BatchView         `json:"batches"`
}

// HistoryFilter narrows history entries. Empty fields match everything.
type HistoryFilter struct {
	EntityType models.EntityType
	Action     models.Action
	UserID     string
	// Since and Until bound the timestamp inclusively when set.
	Since *time.Time
	Until *time.Time
}

// Annotate classifies each batch, keeping input order.
func Annotate(batches []models.Batch, c *expiry.Classifier) []BatchView {
	out := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		cl := c.Classify(b.ExpirationDate)
		out = append(out, BatchView{
			Batch:         b,
			Status:        cl.Status,
			StatusLabel:   expiry.StatusLabel(cl.Status),
			DaysRemaining: cl.DaysRemaining,
		})
	}
	return out
}

func DashboardStats(products []models.Product, batches []models.Batch, c *expiry.Classifier) Stats {
	s := Stats{
		TotalProducts: len(products),
		TotalBatches:  len(batches),
		TotalQuantity: TotalQuantity(batches),
	}
	for _, b := range batches {
		switch c.Classify(b.ExpirationDate).Status {
		case models.StatusValid:
			s.ValidBatches++
		case models.StatusWarning:
			s.WarningBatches++
		case models.StatusExpired:
			s.ExpiredBatches++
		}
	}
	return s
}

// CriticalBatches lists batches with fewer than CriticalDays left, soonest
// first, at most ListLimit. A batch exactly CriticalDays out is expired by
// classification but not critical.
func CriticalBatches(batches []models.Batch, c *expiry.Classifier) []BatchView {
	var out []BatchView
	for _, v := range Annotate(batches, c) {
		if v.DaysRemaining < CriticalDays {
			out = append(out, v)
		}
	}
	sortByDays(out)
	return limit(out, ListLimit)
}

// RecentBatches lists the most recently created batches, at most ListLimit.
func RecentBatches(batches []models.Batch, c *expiry.Classifier) []BatchView {
	out := Annotate(batches, c)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return limit(out, ListLimit)
}

func WarningBatches(batches []models.Batch, c *expiry.Classifier) []BatchView {
	return withStatus(batches, c, models.StatusWarning)
}

func ExpiredBatches(batches []models.Batch, c *expiry.Classifier) []BatchView {
	return withStatus(batches, c, models.StatusExpired)
}

// ProductWorstStatus returns the most urgent status among batches. ok is
// false when there are no batches.
func ProductWorstStatus(batches []models.Batch, c *expiry.Classifier) (status models.BatchStatus, ok bool) {
	for _, b := range batches {
		s := c.Classify(b.ExpirationDate).Status
		if !ok || s.Severity() > status.Severity() {
			status, ok = s, true
		}
	}
	return status, ok
}

// ProductSummaries pairs each product with its batches, in product order.
func ProductSummaries(products []models.Product, batches []models.Batch, c *expiry.Classifier) []ProductSummary {
	byProduct := map[string][]models.Batch{}
	for _, b := range batches {
		byProduct[b.ProductID] = append(byProduct[b.ProductID], b)
	}

	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		own := byProduct[p.ID]
		views := Annotate(own, c)
		sortByDays(views)

		summary := ProductSummary{
			Product:       p,
			BatchCount:    len(own),
			TotalQuantity: TotalQuantity(own),
			Batches:       views,
		}
		if worst, ok := ProductWorstStatus(own, c); ok {
			summary.WorstStatus = &worst
			summary.WorstStatusLabel = expiry.StatusLabel(worst)
		}
		out = append(out, summary)
	}
	return out
}

// FilterHistory keeps entries matching every set field of f, in stored order.
func FilterHistory(history []models.HistoryEntry, f HistoryFilter) []models.HistoryEntry {
	out := []models.HistoryEntry{}
	for _, e := range history {
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.Since != nil && e.Timestamp.Before(*f.Since) {
			continue
		}
		if f.Until != nil && e.Timestamp.After(*f.Until) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// RecentHistory returns the first n entries, which are the newest.
func RecentHistory(history []models.HistoryEntry, n int) []models.HistoryEntry {
	if n < 0 {
		n = 0
	}
	if len(history) <= n {
		return history
	}
	return history[:n]
}

func TotalQuantity(batches []models.Batch) int {
	total := 0
	for _, b := range batches {
		total += b.Quantity
	}
	return total
}

// ViewQuantity sums the quantities of annotated batches.
func ViewQuantity(views []BatchView) int {
	total := 0
	for _, v := range views {
		total += v.Quantity
	}
	return total
}

func withStatus(batches []models.Batch, c *expiry.Classifier, status models.BatchStatus) []BatchView {
	out := []BatchView{}
	for _, v := range Annotate(batches, c) {
		if v.Status == status {
			out = append(out, v)
		}
	}
	sortByDays(out)
	return out
}

func sortByDays(v []BatchView) {
	sort.SliceStable(v, func(i, j int) bool {
		return v[i].DaysRemaining < v[j].DaysRemaining
	})
}

func limit(v []BatchView, n int) []BatchView {
	if v == nil {
		return []BatchView{}
	}
	if len(v) > n {
		return v[:n]
	}
	return v
}
