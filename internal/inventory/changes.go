package inventory

import (
	"fmt"
	"strings"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

// changeDateLayout matches how dates are shown to users (d/m/yyyy).
const changeDateLayout = "2/1/2006"

// DescribeProductChanges summarizes the edited fields of a product, e.g.
// `nombre: "Leche" → "Leche Entera"`. It returns "" when nothing changed.
func DescribeProductChanges(old, updated models.Product) string {
	var changes []string
	if old.Name != updated.Name {
		changes = append(changes, fmt.Sprintf("nombre: \"%s\" → \"%s\"", old.Name, updated.Name))
	}
	if old.Barcode != updated.Barcode {
		changes = append(changes, fmt.Sprintf("código: \"%s\" → \"%s\"", old.Barcode, updated.Barcode))
	}
	return strings.Join(changes, ", ")
}

// DescribeBatchChanges summarizes quantity and expiration edits of a batch.
func DescribeBatchChanges(old, updated models.Batch) string {
	var changes []string
	if old.Quantity != updated.Quantity {
		changes = append(changes, fmt.Sprintf("cantidad: %d → %d", old.Quantity, updated.Quantity))
	}
	if !old.ExpirationDate.Equal(updated.ExpirationDate) {
		changes = append(changes, fmt.Sprintf("vencimiento: %s → %s",
			old.ExpirationDate.Format(changeDateLayout), updated.ExpirationDate.Format(changeDateLayout)))
	}
	return strings.Join(changes, ", ")
}
