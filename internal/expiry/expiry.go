// Package expiry classifies batches by how close they are to their expiration date.
package expiry

import (
	"time"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

const (
	// ExpiredWithinDays is the last day count still classified as expired.
	ExpiredWithinDays = 7
	// WarningWithinDays is the last day count classified as warning.
	WarningWithinDays = 30
)

// Classification is the derived status of an expiration date relative to today.
type Classification struct {
	Status        models.BatchStatus `json:"status"`
	DaysRemaining int                `json:"daysRemaining"`
}

// Classifier maps expiration dates to statuses using a clock read in a fixed location.
type Classifier struct {
	now func() time.Time
	loc *time.Location
}

// NewClassifier returns a Classifier. A nil now uses time.Now and a nil loc uses time.Local.
func NewClassifier(now func() time.Time, loc *time.Location) *Classifier {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Classifier{now: now, loc: loc}
}

// Today is the current calendar day in the classifier's location.
func (c *Classifier) Today() models.Date {
	return models.DateOf(c.now().In(c.loc))
}

// DaysRemaining counts calendar days from today until expirationDate; negative once past.
func (c *Classifier) DaysRemaining(expirationDate models.Date) int {
	return c.Today().DaysUntil(expirationDate)
}

// Classify returns the status and remaining days of expirationDate.
func (c *Classifier) Classify(expirationDate models.Date) Classification {
	days := c.DaysRemaining(expirationDate)
	return Classification{Status: StatusFor(days), DaysRemaining: days}
}

// StatusFor maps a days-remaining count to a status. Anything up to and
// including ExpiredWithinDays counts as expired, not just past dates.
func StatusFor(daysRemaining int) models.BatchStatus {
	switch {
	case daysRemaining <= ExpiredWithinDays:
		return models.StatusExpired
	case daysRemaining <= WarningWithinDays:
		return models.StatusWarning
	default:
		return models.StatusValid
	}
}

// StatusLabel is the display label shown next to a status.
func StatusLabel(s models.BatchStatus) string {
	switch s {
	case models.StatusValid:
		return "Vigente"
	case models.StatusWarning:
		return "Próximo a vencer"
	case models.StatusExpired:
		return "Vencido"
	}
	return ""
}
