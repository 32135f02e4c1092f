package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/expiry-tracker/internal/inventory"
	"github.com/rogerio-castellano/expiry-tracker/internal/validation"
)

type csvRow struct {
	Name    string
	Barcode string
}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"name", "barcode"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", col)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Name:    strings.TrimSpace(record[index["name"]]),
			Barcode: strings.TrimSpace(record[index["barcode"]]),
		})
	}
	return rows, nil
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description CSV with name and barcode columns. Rows whose barcode already exists are skipped, or renamed with mode=update.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	imported := 0
	errorsList := []validation.FieldError{}
	rowError := func(rowNum int, msg string) {
		errorsList = append(errorsList, validation.FieldError{Field: fmt.Sprintf("row %d", rowNum), Description: msg})
	}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		existing, err := inventoryService.LookupProductByBarcode(r.Context(), rec.Barcode)
		switch {
		case err == nil && mode == "skip":
			rowError(rowNum, fmt.Sprintf("product with barcode '%s' already exists", rec.Barcode))
			continue
		case err == nil:
			if existing.Name == rec.Name {
				continue
			}
			edited := existing
			edited.Name = rec.Name
			if _, err := inventoryService.UpdateProduct(r.Context(), edited, actor, inventory.DescribeProductChanges(existing, edited)); err != nil {
				rowError(rowNum, importFailure(err))
				continue
			}
		case errors.Is(err, inventory.ErrProductNotFound):
			if _, err := inventoryService.CreateProduct(r.Context(), inventory.ProductInput{Name: rec.Name, Barcode: rec.Barcode}, actor); err != nil {
				rowError(rowNum, importFailure(err))
				continue
			}
		default:
			writeError(w, r, err)
			return
		}
		imported++
	}

	respond(w, r, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}

func importFailure(err error) string {
	var verr *validation.Error
	if errors.As(err, &verr) {
		parts := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			parts = append(parts, f.Field+": "+f.Description)
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}

