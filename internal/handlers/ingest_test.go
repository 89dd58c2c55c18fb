package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sifriya-app/shelfscan/internal/catalog"
)

func TestHandleBulkIngest(t *testing.T) {
	ingestor := &fakeIngestor{report: &catalog.Report{
		Added:        []catalog.Entry{{ID: "b-1", Title: "הארי פוטר"}},
		SkippedBooks: []catalog.SkippedBook{{Title: "קופיקו", Reason: "already_owned"}},
		Failed:       []catalog.ItemFailure{{Title: "", Error: "title is required"}},
	}}
	handler := New(&fakeDetector{}, ingestor)

	payload := `{"familyId": "fam-7", "books": [{"title": "הארי פוטר"}, {"title": "קופיקו"}, {"title": ""}]}`
	req := httptest.NewRequest("POST", "/api/books/bulk", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleBulkIngest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ingestor.gotFamily != "fam-7" {
		t.Errorf("Expected family fam-7, got %q", ingestor.gotFamily)
	}
	if len(ingestor.gotBooks) != 3 {
		t.Errorf("Expected 3 books passed through, got %d", len(ingestor.gotBooks))
	}

	var resp struct {
		Success      bool                  `json:"success"`
		Added        int                   `json:"added"`
		Skipped      int                   `json:"skipped"`
		Failed       int                   `json:"failed"`
		Books        []catalog.Entry       `json:"books"`
		SkippedBooks []catalog.SkippedBook `json:"skippedBooks"`
		Errors       []catalog.ItemFailure `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success=true despite per-item failures")
	}
	if resp.Added != 1 || resp.Skipped != 1 || resp.Failed != 1 {
		t.Errorf("Unexpected counts: %+v", resp)
	}
	if len(resp.Books) != 1 || resp.Books[0].ID != "b-1" {
		t.Errorf("Unexpected books: %+v", resp.Books)
	}
	if len(resp.SkippedBooks) != 1 || resp.SkippedBooks[0].Reason != "already_owned" {
		t.Errorf("Unexpected skipped: %+v", resp.SkippedBooks)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Error != "title is required" {
		t.Errorf("Unexpected errors: %+v", resp.Errors)
	}
}

func TestHandleBulkIngestDefaultFamily(t *testing.T) {
	ingestor := &fakeIngestor{report: &catalog.Report{
		Added:        []catalog.Entry{{ID: "b-1", Title: "ספר"}},
		SkippedBooks: []catalog.SkippedBook{},
		Failed:       []catalog.ItemFailure{},
	}}
	handler := New(&fakeDetector{}, ingestor)

	req := httptest.NewRequest("POST", "/api/books/bulk", strings.NewReader(`{"books": [{"title": "ספר"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleBulkIngest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ingestor.gotFamily != defaultFamilyID {
		t.Errorf("Expected the default family, got %q", ingestor.gotFamily)
	}
}

func TestHandleBulkIngestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty books", body: `{"books": []}`},
		{name: "missing books", body: `{}`},
		{name: "invalid json", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(&fakeDetector{}, &fakeIngestor{})

			req := httptest.NewRequest("POST", "/api/books/bulk", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.HandleBulkIngest(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleBulkIngestBatchTooLarge(t *testing.T) {
	ingestor := &fakeIngestor{err: fmt.Errorf("%w: 51 books, limit is 50", catalog.ErrBatchTooLarge)}
	handler := New(&fakeDetector{}, ingestor)

	req := httptest.NewRequest("POST", "/api/books/bulk", strings.NewReader(`{"books": [{"title": "ספר"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.HandleBulkIngest(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "limit is 50") {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestHandleBulkIngestMethodNotAllowed(t *testing.T) {
	handler := New(&fakeDetector{}, &fakeIngestor{})

	req := httptest.NewRequest("GET", "/api/books/bulk", nil)
	rec := httptest.NewRecorder()

	handler.HandleBulkIngest(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}
