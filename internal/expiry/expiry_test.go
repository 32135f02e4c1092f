package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

func fixedClassifier(now time.Time) *Classifier {
	return NewClassifier(func() time.Time { return now }, time.UTC)
}

func TestClassifyBoundaries(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	c := fixedClassifier(now)
	today := models.NewDate(2026, time.March, 10)

	tests := []struct {
		name       string
		offset     int
		wantStatus models.BatchStatus
	}{
		{"already past", -1, models.StatusExpired},
		{"expires today", 0, models.StatusExpired},
		{"five days left", 5, models.StatusExpired},
		{"exactly seven days", 7, models.StatusExpired},
		{"eight days", 8, models.StatusWarning},
		{"exactly thirty days", 30, models.StatusWarning},
		{"thirty one days", 31, models.StatusValid},
		{"far future", 365, models.StatusValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(today.AddDays(tt.offset))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.offset, got.DaysRemaining)
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	exp := models.NewDate(2026, time.March, 11)

	early := fixedClassifier(time.Date(2026, time.March, 10, 0, 0, 1, 0, time.UTC))
	late := fixedClassifier(time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC))

	assert.Equal(t, 1, early.DaysRemaining(exp))
	assert.Equal(t, 1, late.DaysRemaining(exp))
}

func TestClassifyUsesConfiguredLocation(t *testing.T) {
	buenosAires := time.FixedZone("ART", -3*60*60)
	// 01:00 UTC on the 11th is still the 10th in Buenos Aires.
	now := time.Date(2026, time.March, 11, 1, 0, 0, 0, time.UTC)
	c := NewClassifier(func() time.Time { return now }, buenosAires)

	assert.Equal(t, models.NewDate(2026, time.March, 10), c.Today())
	assert.Equal(t, 8, c.DaysRemaining(models.NewDate(2026, time.March, 18)))
}

func TestClassifyAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks move forward on 2026-03-29 in Madrid.
	now := time.Date(2026, time.March, 28, 12, 0, 0, 0, loc)
	c := NewClassifier(func() time.Time { return now }, loc)

	assert.Equal(t, 2, c.DaysRemaining(models.NewDate(2026, time.March, 30)))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Vigente", StatusLabel(models.StatusValid))
	assert.Equal(t, "Próximo a vencer", StatusLabel(models.StatusWarning))
	assert.Equal(t, "Vencido", StatusLabel(models.StatusExpired))
}

func TestClassifyDistantDates(t *testing.T) {
	c := fixedClassifier(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC))
	today := models.NewDate(2026, time.March, 10)

	for _, offset := range []int{107000, 200000, -200000} {
		got := c.Classify(today.AddDays(offset))
		assert.Equal(t, offset, got.DaysRemaining, "offset %d", offset)
	}
	assert.Equal(t, models.StatusValid, c.Classify(today.AddDays(200000)).Status)
	assert.Equal(t, models.StatusExpired, c.Classify(today.AddDays(-200000)).Status)
}
