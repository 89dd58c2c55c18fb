package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 4096

// RESTStore talks to a PostgREST-style catalog API: eq/ilike filters in the
// query string, 409 on unique-key violations. An ilike filter without
// wildcards is a case-insensitive exact match, which is exactly what the
// dedup key needs.
type RESTStore struct {
	BaseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Store = (*RESTStore)(nil)

func NewRESTStore(baseURL, apiKey string) *RESTStore {
	return &RESTStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (r *RESTStore) FindByISBN(ctx context.Context, isbn string) (*Entry, error) {
	query := url.Values{}
	query.Set("isbn", "eq."+isbn)
	query.Set("limit", "1")

	var entries []Entry
	if err := r.get(ctx, "/rest/v1/books", query, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (r *RESTStore) FindByTitleAuthor(ctx context.Context, title, author string) ([]Entry, error) {
	query := url.Values{}
	query.Set("title", "ilike."+title)
	query.Set("author", "ilike."+author)

	var entries []Entry
	if err := r.get(ctx, "/rest/v1/books", query, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *RESTStore) Insert(ctx context.Context, entry Entry) (*Entry, error) {
	resp, err := r.do(ctx, http.MethodPost, "/rest/v1/books", nil, entry, "return=representation")
	if err != nil {
		return nil, fmt.Errorf("catalog insert failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var created []Entry
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return nil, fmt.Errorf("failed to decode created entry: %w", err)
		}
		if len(created) == 0 {
			return nil, fmt.Errorf("catalog insert returned no entry")
		}
		return &created[0], nil
	case http.StatusConflict:
		return nil, ErrDuplicate
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("catalog insert returned status %d: %s", resp.StatusCode, string(body))
	}
}

func (r *RESTStore) Owns(ctx context.Context, familyID, entryID string) (bool, error) {
	query := url.Values{}
	query.Set("family_id", "eq."+familyID)
	query.Set("book_id", "eq."+entryID)
	query.Set("limit", "1")

	var links []ownershipLink
	if err := r.get(ctx, "/rest/v1/family_books", query, &links); err != nil {
		return false, err
	}
	return len(links) > 0, nil
}

func (r *RESTStore) LinkOwnership(ctx context.Context, familyID, entryID string) error {
	link := ownershipLink{FamilyID: familyID, BookID: entryID}
	resp, err := r.do(ctx, http.MethodPost, "/rest/v1/family_books", nil, link, "return=minimal")
	if err != nil {
		return fmt.Errorf("ownership link failed: %w", err)
	}
	defer resp.Body.Close()

	// 409 means the link already exists, which is the state we wanted.
	if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusConflict {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("ownership link returned status %d: %s", resp.StatusCode, string(body))
}

type ownershipLink struct {
	FamilyID string `json:"family_id"`
	BookID   string `json:"book_id"`
}

func (r *RESTStore) get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := r.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return fmt.Errorf("catalog lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("catalog lookup returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

func (r *RESTStore) do(ctx context.Context, method, path string, query url.Values, body any, prefer string) (*http.Response, error) {
	endpoint := r.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	return r.httpClient.Do(req)
}
