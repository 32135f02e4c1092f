package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/expiry-tracker/internal/inventory"
	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

// GetProductsHandler godoc
// @Summary List products with their batches and worst status
// @Description Filters by case-insensitive name or barcode substring when q is given
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search term"
// @Success 200 {array} views.ProductSummary
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := inventoryService.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	summaries, err := viewEngine.Summaries(r.Context(), products)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, summaries)
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {array} validation.FieldError
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	created, err := inventoryService.CreateProduct(r.Context(), inventory.ProductInput{Name: req.Name, Barcode: req.Barcode}, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, created)
}

// GetProductByBarcodeHandler godoc
// @Summary Find a product by exact barcode
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param barcode path string true "Barcode"
// @Success 200 {object} views.ProductSummary
// @Failure 404 {string} string "Not found"
// @Router /products/barcode/{barcode} [get]
func GetProductByBarcodeHandler(w http.ResponseWriter, r *http.Request) {
	product, err := inventoryService.LookupProductByBarcode(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeProductSummary(w, r, product)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} views.ProductSummary
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, err := inventoryService.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeProductSummary(w, r, product)
}

func writeProductSummary(w http.ResponseWriter, r *http.Request, product models.Product) {
	summaries, err := viewEngine.Summaries(r.Context(), []models.Product{product})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, summaries[0])
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Name and barcode changes are copied onto every batch of the product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param product body ProductUpdateRequest true "Updated product"
// @Success 200 {object} models.Product
// @Failure 400 {array} validation.FieldError
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req ProductUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	current, err := inventoryService.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	edited := current
	edited.Name = strings.TrimSpace(req.Name)
	edited.Barcode = strings.TrimSpace(req.Barcode)

	changes := inventory.DescribeProductChanges(current, edited)
	if req.Changes != nil {
		changes = *req.Changes
	}

	updated, err := inventoryService.UpdateProduct(r.Context(), edited, actor, changes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, updated)
}

// DeleteProductHandler godoc
// @Summary Delete a product and all of its batches
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := inventoryService.DeleteProduct(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProductBatchesHandler godoc
// @Summary List the batches of a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {array} views.BatchView
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/batches [get]
func GetProductBatchesHandler(w http.ResponseWriter, r *http.Request) {
	batches, err := inventoryService.BatchesByProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, viewEngine.Batches(batches))
}
