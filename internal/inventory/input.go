package inventory

import (
	"strings"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/validation"
)

type ProductInput struct {
	Name    string `json:"name" validate:"required"`
	Barcode string `json:"barcode" validate:"required"`
}

func (in ProductInput) normalized() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	return in
}

type BatchInput struct {
	ProductID      string      `json:"productId" validate:"required"`
	ExpirationDate models.Date `json:"expirationDate"`
	Quantity       int         `json:"quantity" validate:"gte=1"`
}

func (in BatchInput) normalized() BatchInput {
	in.ProductID = strings.TrimSpace(in.ProductID)
	return in
}

func validateProduct(in ProductInput) error {
	return validation.Struct(in).OrNil()
}

func validateBatch(in BatchInput) error {
	verr := validation.Struct(in)
	if in.ExpirationDate.IsZero() {
		verr.Add("expirationDate", "This field is required")
	}
	return verr.OrNil()
}

func validateBatchEdit(b models.Batch) error {
	verr := validation.New()
	if b.ExpirationDate.IsZero() {
		verr.Add("expirationDate", "This field is required")
	}
	if b.Quantity < 1 {
		verr.Add("quantity", "Must be greater than or equal to 1")
	}
	return verr.OrNil()
}

func validateActor(actor models.Actor) error {
	if strings.TrimSpace(actor.UserID) == "" {
		return ErrMissingActor
	}
	return nil
}
