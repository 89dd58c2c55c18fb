package enrich

import (
	"reflect"
	"testing"

	"github.com/sifriya-app/shelfscan/internal/models"
)

func TestMergeNoMatch(t *testing.T) {
	two := 2
	book := models.DetectedBook{
		Title:        "הארי פוטר וחדר הסודות",
		Author:       "ג'יי קיי רולינג",
		Series:       "הארי פוטר",
		SeriesNumber: &two,
		Genre:        "פנטזיה",
		AgeRange:     "9-12",
	}

	enriched := Merge(book, nil, 0)

	if enriched.Confidence != models.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", enriched.Confidence)
	}
	if enriched.ConfidenceScore != 0 {
		t.Errorf("Expected score 0, got %d", enriched.ConfidenceScore)
	}
	if enriched.Title != book.Title || enriched.Author != book.Author {
		t.Errorf("Expected detected fields preserved, got %+v", enriched)
	}
	if enriched.Series != book.Series || enriched.SeriesNumber == nil || *enriched.SeriesNumber != 2 {
		t.Errorf("Expected detected series preserved, got %+v", enriched)
	}
	if enriched.Genre != "פנטזיה" || enriched.AgeRange != "9-12" {
		t.Errorf("Expected vocab fields preserved, got %+v", enriched)
	}
	if enriched.ISBN != "" || enriched.Source != "" {
		t.Errorf("Expected no provider fields, got %+v", enriched)
	}
}

func TestMergeWeakMatchStaysLow(t *testing.T) {
	book := models.DetectedBook{Title: "ספר המדבר"}
	match := &models.SearchResult{
		Title:  "ספר אחר לגמרי",
		ISBN:   "9789991234567",
		Source: "google_books",
	}

	enriched := Merge(book, match, 15)

	if enriched.Confidence != models.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", enriched.Confidence)
	}
	if enriched.ConfidenceScore != 15 {
		t.Errorf("Expected score 15, got %d", enriched.ConfidenceScore)
	}
	if enriched.Title != "ספר המדבר" {
		t.Errorf("Expected detected title, got %q", enriched.Title)
	}
	// A weak match contributes nothing, not even the ISBN.
	if enriched.ISBN != "" || enriched.Source != "" {
		t.Errorf("Expected no provider fields below the threshold, got %+v", enriched)
	}
}

func TestMergeHighConfidenceOverrides(t *testing.T) {
	one := 1
	book := models.DetectedBook{
		Title:  "הארי פוטר ואבן החכמי",
		Author: "רולינג",
		Genre:  "פנטזיה",
	}
	match := &models.SearchResult{
		Title:         "הארי פוטר ואבן החכמים",
		Author:        "ג'יי קיי רולינג",
		ISBN:          "9789654487733",
		CoverImageURL: "https://covers.example/1.jpg",
		Description:   "הספר הראשון בסדרה",
		Categories:    []string{"Fantasy"},
		PublishedDate: "2000",
		Publisher:     "ידיעות ספרים",
		Pages:         320,
		Language:      "he",
		Series:        "הארי פוטר",
		SeriesNumber:  &one,
		Source:        "simania",
	}

	enriched := Merge(book, match, 95)

	if enriched.Confidence != models.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", enriched.Confidence)
	}
	if enriched.ConfidenceScore != 95 {
		t.Errorf("Expected score 95, got %d", enriched.ConfidenceScore)
	}
	if enriched.Title != "הארי פוטר ואבן החכמים" {
		t.Errorf("Expected provider title to win, got %q", enriched.Title)
	}
	if enriched.Author != "ג'יי קיי רולינג" {
		t.Errorf("Expected provider author to win, got %q", enriched.Author)
	}
	if enriched.Series != "הארי פוטר" || enriched.SeriesNumber == nil || *enriched.SeriesNumber != 1 {
		t.Errorf("Expected provider series fields, got %+v", enriched)
	}
	if enriched.ISBN != "9789654487733" || enriched.Source != "simania" {
		t.Errorf("Expected provider identifiers, got %+v", enriched)
	}
	if !reflect.DeepEqual(enriched.Categories, []string{"Fantasy"}) {
		t.Errorf("Expected provider categories, got %v", enriched.Categories)
	}
	if enriched.Publisher != "ידיעות ספרים" || enriched.Pages != 320 || enriched.Language != "he" {
		t.Errorf("Expected provider edition fields, got %+v", enriched)
	}
	// Vocabulary fields come from detection, never from providers.
	if enriched.Genre != "פנטזיה" {
		t.Errorf("Expected detected genre kept, got %q", enriched.Genre)
	}
}

func TestMergeHighKeepsDetectedWhenProviderLacksField(t *testing.T) {
	three := 3
	book := models.DetectedBook{
		Title:        "צ'ופצ'יק",
		Author:       "מאיר שלו",
		SeriesNumber: &three,
	}
	match := &models.SearchResult{
		Title:  "צ'ופצ'יק",
		ISBN:   "9789650701234",
		Source: "google_books",
	}

	enriched := Merge(book, match, 75)

	if enriched.Author != "מאיר שלו" {
		t.Errorf("Expected detected author kept when provider has none, got %q", enriched.Author)
	}
	if enriched.SeriesNumber == nil || *enriched.SeriesNumber != 3 {
		t.Errorf("Expected detected series number kept, got %v", enriched.SeriesNumber)
	}
}

func TestMergeMediumFillsGapsOnly(t *testing.T) {
	five := 5
	book := models.DetectedBook{
		Title:  "דני דין הרואה ואינו נראה",
		Author: "און שריג",
	}
	match := &models.SearchResult{
		Title:         "דני דין",
		Author:        "שרגא גפני",
		ISBN:          "9789651300000",
		CoverImageURL: "https://covers.example/dd.jpg",
		Description:   "ילד רואה ואינו נראה",
		Series:        "דני דין",
		SeriesNumber:  &five,
		Source:        "simania",
	}

	enriched := Merge(book, match, 55)

	if enriched.Confidence != models.ConfidenceMedium {
		t.Errorf("Expected medium confidence, got %s", enriched.Confidence)
	}
	if enriched.Title != "דני דין הרואה ואינו נראה" {
		t.Errorf("Expected detected title preserved, got %q", enriched.Title)
	}
	if enriched.Author != "און שריג" {
		t.Errorf("Expected detected author preserved, got %q", enriched.Author)
	}
	if enriched.Series != "דני דין" {
		t.Errorf("Expected empty series filled from provider, got %q", enriched.Series)
	}
	if enriched.SeriesNumber == nil || *enriched.SeriesNumber != 5 {
		t.Errorf("Expected nil series number filled from provider, got %v", enriched.SeriesNumber)
	}
	if enriched.ISBN != "9789651300000" || enriched.CoverImageURL == "" || enriched.Description == "" {
		t.Errorf("Expected supplemental fields copied, got %+v", enriched)
	}
}

func TestMergeMediumPreservesDetectedSeriesNumber(t *testing.T) {
	two, seven := 2, 7
	book := models.DetectedBook{
		Title:        "הארי פוטר וחדר הסודות",
		Series:       "הארי פוטר",
		SeriesNumber: &two,
	}
	match := &models.SearchResult{
		Title:        "הארי פוטר",
		Series:       "הארי פוטר",
		SeriesNumber: &seven,
		Source:       "open_library",
	}

	enriched := Merge(book, match, 45)

	if enriched.SeriesNumber == nil || *enriched.SeriesNumber != 2 {
		t.Errorf("Expected detected series number preserved, got %v", enriched.SeriesNumber)
	}
}

func TestMergeCapsScore(t *testing.T) {
	book := models.DetectedBook{Title: "הארי פוטר", Author: "רולינג"}
	match := &models.SearchResult{
		Title:         "הארי פוטר",
		Author:        "רולינג",
		ISBN:          "9780747532699",
		CoverImageURL: "https://covers.example/hp.jpg",
		Description:   "הקוסם הצעיר מגלה את עולם הקסמים ויוצא להרפתקה הראשונה שלו בהוגוורטס",
		Source:        "google_books",
	}

	enriched := Merge(book, match, 110)

	if enriched.ConfidenceScore != 100 {
		t.Errorf("Expected score capped at 100, got %d", enriched.ConfidenceScore)
	}
	if enriched.Confidence != models.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", enriched.Confidence)
	}
}
