package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRESTStoreFindByISBN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/books" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("isbn"); got != "eq.9780747532699" {
			t.Errorf("Unexpected isbn filter: %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("Unexpected limit: %q", got)
		}
		if got := r.Header.Get("apikey"); got != "test-key" {
			t.Errorf("Unexpected apikey header: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "b-1", "title": "הארי פוטר ואבן החכמים", "isbn": "9780747532699"}]`))
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, "test-key")
	entry, err := store.FindByISBN(context.Background(), "9780747532699")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if entry == nil || entry.ID != "b-1" {
		t.Errorf("Expected entry b-1, got %+v", entry)
	}
}

func TestRESTStoreFindByISBNNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, "test-key")
	entry, err := store.FindByISBN(context.Background(), "9999999999999")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("Expected no entry, got %+v", entry)
	}
}

func TestRESTStoreFindByTitleAuthor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("title"); got != "ilike.הארי פוטר" {
			t.Errorf("Unexpected title filter: %q", got)
		}
		if got := r.URL.Query().Get("author"); got != "ilike.רולינג" {
			t.Errorf("Unexpected author filter: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "b-1", "title": "הארי פוטר", "author": "רולינג", "series": "הארי פוטר", "series_number": 1},
			{"id": "b-2", "title": "הארי פוטר", "author": "רולינג", "series": "הארי פוטר", "series_number": 2}
		]`))
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, "test-key")
	entries, err := store.FindByTitleAuthor(context.Background(), "הארי פוטר", "רולינג")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].SeriesNumber == nil || *entries[1].SeriesNumber != 2 {
		t.Errorf("Expected series_number 2, got %v", entries[1].SeriesNumber)
	}
}

func TestRESTStoreInsert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Unexpected Prefer header: %q", got)
		}
		var entry Entry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if entry.Title != "קופיקו" {
			t.Errorf("Unexpected title in request: %q", entry.Title)
		}
		entry.ID = "b-9"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]Entry{entry})
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, "test-key")
	created, err := store.Insert(context.Background(), Entry{Title: "קופיקו", Author: "תמר בורנשטיין-לזר"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if created.ID != "b-9" {
		t.Errorf("Expected id b-9, got %q", created.ID)
	}
}

func TestRESTStoreInsertConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code": "23505", "message": "duplicate key value violates unique constraint"}`))
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, "test-key")
	_, err := store.Insert(context.Background(), Entry{Title: "קופיקו"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestRESTStoreOwns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/family_books" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("family_id"); got != "eq.fam-1" {
			t.Errorf("Unexpected family filter: %q", got)
		}
		if got := r.URL.Query().Get("book_id"); got != "eq.b-1" {
			t.Errorf("Unexpected book filter: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"family_id": "fam-1", "book_id": "b-1"}]`))
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, "test-key")
	owned, err := store.Owns(context.Background(), "fam-1", "b-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !owned {
		t.Error("Expected owned")
	}
}

func TestRESTStoreLinkOwnership(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "created", status: http.StatusCreated},
		{name: "already linked", status: http.StatusConflict},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Prefer"); got != "return=minimal" {
					t.Errorf("Unexpected Prefer header: %q", got)
				}
				var link ownershipLink
				if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
					t.Fatalf("Failed to decode request body: %v", err)
				}
				if link.FamilyID != "fam-1" || link.BookID != "b-1" {
					t.Errorf("Unexpected link payload: %+v", link)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			store := NewRESTStore(srv.URL, "test-key")
			err := store.LinkOwnership(context.Background(), "fam-1", "b-1")
			if tt.wantErr && err == nil {
				t.Error("Expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
