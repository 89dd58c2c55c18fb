package booksearch

import (
	"strings"
	"testing"

	"github.com/sifriya-app/shelfscan/internal/models"
)

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name   string
		book   models.DetectedBook
		result models.SearchResult
		want   int
	}{
		{
			name: "exact title exact author full record",
			book: models.DetectedBook{Title: "הארי פוטר ואבן החכמים", Author: "ג'יי קיי רולינג"},
			result: models.SearchResult{
				Title:         "הארי פוטר ואבן החכמים",
				Author:        "ג'יי קיי רולינג",
				ISBN:          "9789650716783",
				CoverImageURL: "https://example.com/cover.jpg",
				Description:   strings.Repeat("ספר מצוין על קוסם צעיר. ", 10),
			},
			// 60 title + 30 author + 10 isbn + 5 cover + 5 description
			want: 110,
		},
		{
			name: "surname-only author with isbn",
			book: models.DetectedBook{Title: "הארי פוטר ואבן החכמים", Author: "רולינג"},
			result: models.SearchResult{
				Title:  "הארי פוטר ואבן החכמים",
				Author: "ג'יי קיי רולינג",
				ISBN:   "9789650716783",
			},
			// 60 title + 25 author (containment maps to 0.85) + 10 isbn
			want: 95,
		},
		{
			name: "title containment",
			book: models.DetectedBook{Title: "אבן החכמים"},
			result: models.SearchResult{
				Title: "הארי פוטר ואבן החכמים",
			},
			want: 50,
		},
		{
			name: "near title via similarity",
			book: models.DetectedBook{Title: "ביקתת הדוד תום"},
			result: models.SearchResult{
				Title: "ביקתת הדור תום",
			},
			// one substitution out of 14 runes, similarity > 0.8
			want: 45,
		},
		{
			name:   "unrelated titles score nothing",
			book:   models.DetectedBook{Title: "הארי פוטר"},
			result: models.SearchResult{Title: "תנ\"ך מאויר לילדים"},
			want:   0,
		},
		{
			name: "author ignored when candidate has none",
			book: models.DetectedBook{Title: "המסע אל הקצה"},
			result: models.SearchResult{
				Title:  "המסע אל הקצה",
				Author: "יובל נח הררי",
			},
			want: 60,
		},
		{
			name: "short description earns no bonus",
			book: models.DetectedBook{Title: "ספר"},
			result: models.SearchResult{
				Title:       "ספר",
				Description: "קצר",
			},
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchScore(tt.book, tt.result); got != tt.want {
				t.Errorf("matchScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBestMatch(t *testing.T) {
	book := models.DetectedBook{Title: "הארי פוטר ואבן החכמים", Author: "רולינג"}
	results := []models.SearchResult{
		{Title: "ספר בישול לילדים", Source: SourceGoogleBooks},
		{Title: "הארי פוטר ואבן החכמים", Author: "ג'יי קיי רולינג", ISBN: "9789650716783", Source: SourceSimania},
		{Title: "הארי פוטר ואבן החכמים", Source: SourceOpenLibrary},
	}

	best, score := BestMatch(book, results)
	if best == nil {
		t.Fatal("BestMatch() returned nil")
	}
	if best.Source != SourceSimania {
		t.Errorf("BestMatch() picked %s, want %s", best.Source, SourceSimania)
	}
	if score != 95 {
		t.Errorf("BestMatch() score = %d, want 95", score)
	}

	again, againScore := BestMatch(book, results)
	if again.Source != best.Source || againScore != score {
		t.Errorf("BestMatch() re-run gave (%s, %d), want (%s, %d)", again.Source, againScore, best.Source, score)
	}
}

func TestBestMatchFirstWinsOnTie(t *testing.T) {
	book := models.DetectedBook{Title: "שמש במדבר"}
	results := []models.SearchResult{
		{Title: "שמש במדבר", Source: "first"},
		{Title: "שמש במדבר", Source: "second"},
	}

	best, _ := BestMatch(book, results)
	if best == nil || best.Source != "first" {
		t.Errorf("BestMatch() did not keep the first of equal scores")
	}
}

func TestBestMatchEmptyResults(t *testing.T) {
	best, score := BestMatch(models.DetectedBook{Title: "ספר"}, nil)
	if best != nil || score != 0 {
		t.Errorf("BestMatch() on empty results = (%v, %d), want (nil, 0)", best, score)
	}
}
