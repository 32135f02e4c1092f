package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/expiry-tracker/internal/inventory"
	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

// CreateBatchHandler godoc
// @Summary Add a batch to a product
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batch body BatchRequest true "Batch to add"
// @Success 201 {object} views.BatchView
// @Failure 400 {array} validation.FieldError
// @Failure 404 {string} string "Product not found"
// @Router /batches [post]
func CreateBatchHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req BatchRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	created, err := inventoryService.CreateBatch(r.Context(), inventory.BatchInput{
		ProductID:      req.ProductID,
		ExpirationDate: req.ExpirationDate,
		Quantity:       req.Quantity,
	}, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, viewEngine.Batches([]models.Batch{created})[0])
}

// GetBatchesHandler godoc
// @Summary List all batches, soonest expiry first
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} views.BatchView
// @Failure 500 {string} string "Internal error"
// @Router /batches [get]
func GetBatchesHandler(w http.ResponseWriter, r *http.Request) {
	batches, err := inventoryService.Batches(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, viewEngine.Batches(batches))
}

// UpdateBatchHandler godoc
// @Summary Change the expiration date and quantity of a batch
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Param batch body BatchUpdateRequest true "New values"
// @Success 200 {object} views.BatchView
// @Failure 400 {array} validation.FieldError
// @Failure 404 {string} string "Not found"
// @Router /batches/{id} [put]
func UpdateBatchHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req BatchUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	current, err := inventoryService.Batch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	edited := current
	edited.ExpirationDate = req.ExpirationDate
	edited.Quantity = req.Quantity

	changes := inventory.DescribeBatchChanges(current, edited)
	if req.Changes != nil {
		changes = *req.Changes
	}

	updated, err := inventoryService.UpdateBatch(r.Context(), edited, actor, changes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, viewEngine.Batches([]models.Batch{updated})[0])
}

// DeleteBatchHandler godoc
// @Summary Delete a batch
// @Tags batches
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Success 204 "Deleted successfully"
// @Failure 500 {string} string "Internal error"
// @Router /batches/{id} [delete]
func DeleteBatchHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := inventoryService.DeleteBatch(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetWarningBatchesHandler godoc
// @Summary Batches about to expire
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} views.BatchList
// @Failure 500 {string} string "Internal error"
// @Router /batches/warning [get]
func GetWarningBatchesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := viewEngine.Warning(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, list)
}

// GetExpiredBatchesHandler godoc
// @Summary Expired batches
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} views.BatchList
// @Failure 500 {string} string "Internal error"
// @Router /batches/expired [get]
func GetExpiredBatchesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := viewEngine.Expired(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, list)
}
