package repo

import (
	"time"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

// Dataset is the initial content written by Store.Init.
type Dataset struct {
	Products []models.Product
	Batches  []models.Batch
}

// DemoDataset is the demo catalog with batch expirations relative to today.
func DemoDataset(today models.Date, now time.Time) Dataset {
	products := []models.Product{
		{ID: "1", Name: "Leche Entera", Barcode: "7790001234567"},
		{ID: "2", Name: "Yogurt Natural", Barcode: "7790002345678"},
		{ID: "3", Name: "Manteca", Barcode: "7790003456789"},
	}
	for i := range products {
		products[i].CreatedAt = now
		products[i].CreatedBy = "1"
		products[i].UpdatedAt = now
		products[i].UpdatedBy = "1"
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	batch := func(id, productID string, offsetDays, quantity int, createdBy string) models.Batch {
		p := byID[productID]
		return models.Batch{
			ID:             id,
			ProductID:      p.ID,
			ProductName:    p.Name,
			ProductBarcode: p.Barcode,
			ExpirationDate: today.AddDays(offsetDays),
			Quantity:       quantity,
			CreatedAt:      now,
			CreatedBy:      createdBy,
			UpdatedAt:      now,
			UpdatedBy:      createdBy,
		}
	}

	return Dataset{
		Products: products,
		Batches: []models.Batch{
			batch("b1", "1", 5, 24, "1"),
			batch("b2", "1", 15, 36, "1"),
			batch("b3", "2", 45, 48, "1"),
			batch("b4", "3", -2, 12, "1"),
			batch("b5", "2", 20, 24, "2"),
		},
	}
}
