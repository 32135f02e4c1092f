package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/validation"
	"github.com/rogerio-castellano/expiry-tracker/internal/views"
)

// GetDashboardHandler godoc
// @Summary Dashboard stats, critical and recent batches, latest history
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} views.Dashboard
// @Failure 500 {string} string "Internal error"
// @Router /dashboard [get]
func GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	d, err := viewEngine.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, d)
}

// GetHistoryHandler godoc
// @Summary Change history, newest first
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param entityType query string false "product or batch"
// @Param action query string false "create, update or delete"
// @Param userId query string false "Acting user ID"
// @Param since query string false "Lower timestamp bound (RFC3339)"
// @Param until query string false "Upper timestamp bound (RFC3339)"
// @Success 200 {array} models.HistoryEntry
// @Failure 400 {array} validation.FieldError
// @Router /history [get]
func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := viewEngine.History(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, entries)
}

// ExportHistoryHandler godoc
// @Summary Export the change history
// @Tags history
// @Produce text/csv, application/json
// @Security BearerAuth
// @Param format query string true "Export format (csv or json)"
// @Param entityType query string false "product or batch"
// @Param action query string false "create, update or delete"
// @Param userId query string false "Acting user ID"
// @Param since query string false "Lower timestamp bound (RFC3339)"
// @Param until query string false "Upper timestamp bound (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /history/export [get]
func ExportHistoryHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	filter, err := parseHistoryFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := viewEngine.History(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch format {
	case "json":
		if err := writeJSON(w, http.StatusOK, entries, http.Header{
			"Content-Disposition": []string{`attachment; filename="history.json"`},
		}); err != nil {
			appLogger.Error(r.Context(), "failed to write JSON export", err)
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="history.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "entity_type", "entity_id", "entity_name", "action", "user_id", "user_name", "timestamp", "changes"})
		for _, e := range entries {
			_ = csvWriter.Write([]string{
				e.ID,
				string(e.EntityType),
				e.EntityID,
				e.EntityName,
				string(e.Action),
				e.UserID,
				e.UserName,
				e.Timestamp.Format(time.RFC3339),
				e.Changes,
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			appLogger.Error(r.Context(), "failed to write CSV export", err)
		}
	}
}

func parseHistoryFilter(r *http.Request) (views.HistoryFilter, error) {
	q := r.URL.Query()
	verr := validation.New()
	var f views.HistoryFilter

	if v := q.Get("entityType"); v != "" {
		et, err := models.ParseEntityType(v)
		if err != nil {
			verr.Add("entityType", err.Error())
		}
		f.EntityType = et
	}
	if v := q.Get("action"); v != "" {
		a, err := models.ParseAction(v)
		if err != nil {
			verr.Add("action", err.Error())
		}
		f.Action = a
	}
	f.UserID = strings.TrimSpace(q.Get("userId"))

	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{{"since", &f.Since}, {"until", &f.Until}} {
		v := q.Get(bound.name)
		if v == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			verr.Add(bound.name, fmt.Sprintf("invalid timestamp %q: expected RFC3339", v))
			continue
		}
		*bound.dst = &ts
	}

	return f, verr.OrNil()
}
