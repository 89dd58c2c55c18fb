package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/sifriya-app/shelfscan/internal/models"
)

// HandleScans lists processed scans, newest first.
func (h *Handler) HandleScans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		scans := h.scans.GetAll()
		scanList := make([]*models.Scan, 0, len(scans))
		for _, scan := range scans {
			scanList = append(scanList, scan)
		}
		sort.Slice(scanList, func(i, j int) bool {
			return scanList[i].CreatedAt.After(scanList[j].CreatedAt)
		})
		h.writeJSON(w, scanList)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleScanDetail serves one scan for review. PUT replaces the book list so
// the family can fix titles or drop misreads before confirming; DELETE
// discards the scan without adding anything to the catalog.
func (h *Handler) HandleScanDetail(w http.ResponseWriter, r *http.Request) {
	scanID := strings.TrimPrefix(r.URL.Path, "/api/scans/")

	scan, ok := h.getScanOrError(w, scanID)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		h.writeJSON(w, scan)
	case "PUT":
		var update struct {
			Books []models.EnrichedBook `json:"books"`
		}
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		updated := *scan
		updated.Books = update.Books
		updated.Count = len(update.Books)
		h.scans.Set(scanID, &updated)
		h.writeJSON(w, updated)
	case "DELETE":
		h.scans.Delete(scanID)
		h.writeJSON(w, map[string]any{"success": true})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
