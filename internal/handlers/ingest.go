package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sifriya-app/shelfscan/internal/catalog"
	"github.com/sifriya-app/shelfscan/internal/models"
)

// defaultFamilyID is used by single-household deployments that don't send a
// family identifier.
const defaultFamilyID = "default"

type bulkRequest struct {
	FamilyID string                `json:"familyId"`
	Books    []models.EnrichedBook `json:"books"`
}

type bulkResponse struct {
	Success      bool                  `json:"success"`
	Added        int                   `json:"added"`
	Skipped      int                   `json:"skipped"`
	Failed       int                   `json:"failed"`
	Books        []catalog.Entry       `json:"books"`
	SkippedBooks []catalog.SkippedBook `json:"skippedBooks"`
	Errors       []catalog.ItemFailure `json:"errors"`
}

// HandleBulkIngest persists a batch of user-confirmed books. Item outcomes
// are reported individually; the call succeeds even when some items fail.
func (h *Handler) HandleBulkIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(request.Books) == 0 {
		h.writeError(w, "books is required", http.StatusBadRequest)
		return
	}
	if request.FamilyID == "" {
		request.FamilyID = defaultFamilyID
	}

	report, err := h.ingestor.IngestBatch(r.Context(), request.FamilyID, request.Books)
	if err != nil {
		if errors.Is(err, catalog.ErrBatchTooLarge) {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, bulkResponse{
		Success:      true,
		Added:        len(report.Added),
		Skipped:      len(report.SkippedBooks),
		Failed:       len(report.Failed),
		Books:        report.Added,
		SkippedBooks: report.SkippedBooks,
		Errors:       report.Failed,
	})
}
