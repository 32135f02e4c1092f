package models

import "time"

// Product is a catalog item identified by its barcode.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// Batch is a quantity of one product sharing an expiration date.
// ProductName and ProductBarcode mirror the parent product.
type Batch struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName"`
	ProductBarcode string    `json:"productBarcode"`
	ExpirationDate Date      `json:"expirationDate"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	UpdatedAt      time.Time `json:"updatedAt"`
	UpdatedBy      string    `json:"updatedBy"`
}
