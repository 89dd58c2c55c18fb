package catalog

import (
	"context"
	"testing"

	"github.com/sifriya-app/shelfscan/internal/models"
)

func TestResolve(t *testing.T) {
	one, two := 1, 2

	tests := []struct {
		name  string
		seed  []Entry
		book  models.EnrichedBook
		found bool
	}{
		{
			name:  "isbn hit despite different title",
			seed:  []Entry{{Title: "הכותר שבקטלוג", ISBN: "9789654487733"}},
			book:  models.EnrichedBook{Title: "כותר אחר לגמרי", ISBN: "9789654487733"},
			found: true,
		},
		{
			name:  "isbn with separators still matches",
			seed:  []Entry{{Title: "הארי פוטר", ISBN: "9780747532699"}},
			book:  models.EnrichedBook{Title: "שונה", ISBN: "978-0-7475-3269-9"},
			found: true,
		},
		{
			name:  "short isbn never acts as a key",
			seed:  []Entry{{Title: "ספר כלשהו", Author: "מישהו", ISBN: "978"}},
			book:  models.EnrichedBook{Title: "ספר אחר", Author: "מישהי", ISBN: "978"},
			found: false,
		},
		{
			name:  "zero isbn never acts as a key",
			seed:  []Entry{{Title: "ספר", Author: "א", ISBN: "0"}},
			book:  models.EnrichedBook{Title: "אחר", Author: "ב", ISBN: "0"},
			found: false,
		},
		{
			name:  "same series and number",
			seed:  []Entry{{Title: "הארי פוטר ואבן החכמים", Author: "רולינג", Series: "הארי פוטר", SeriesNumber: &one}},
			book:  models.EnrichedBook{Title: "הארי פוטר ואבן החכמים", Author: "רולינג", Series: "הארי פוטר", SeriesNumber: &one},
			found: true,
		},
		{
			name:  "same series different number",
			seed:  []Entry{{Title: "הארי פוטר ואבן החכמים", Author: "רולינג", Series: "הארי פוטר", SeriesNumber: &one}},
			book:  models.EnrichedBook{Title: "הארי פוטר ואבן החכמים", Author: "רולינג", Series: "הארי פוטר", SeriesNumber: &two},
			found: false,
		},
		{
			name:  "candidate number against entry without one",
			seed:  []Entry{{Title: "דני דין", Author: "שרגא גפני", Series: "דני דין"}},
			book:  models.EnrichedBook{Title: "דני דין", Author: "שרגא גפני", Series: "דני דין", SeriesNumber: &one},
			found: false,
		},
		{
			name:  "entry number against candidate without one",
			seed:  []Entry{{Title: "דני דין", Author: "שרגא גפני", Series: "דני דין", SeriesNumber: &one}},
			book:  models.EnrichedBook{Title: "דני דין", Author: "שרגא גפני", Series: "דני דין"},
			found: false,
		},
		{
			name:  "series with both numbers absent",
			seed:  []Entry{{Title: "קופיקו", Author: "תמר בורנשטיין-לזר", Series: "קופיקו"}},
			book:  models.EnrichedBook{Title: "קופיקו", Author: "תמר בורנשטיין-לזר", Series: "קופיקו"},
			found: true,
		},
		{
			name:  "no series requires entry without series",
			seed:  []Entry{{Title: "קופיקו", Author: "תמר בורנשטיין-לזר", Series: "קופיקו"}},
			book:  models.EnrichedBook{Title: "קופיקו", Author: "תמר בורנשטיין-לזר"},
			found: false,
		},
		{
			name:  "plain title author match",
			seed:  []Entry{{Title: "שמלת השבת של חנה'לה", Author: "יצחק שויגר-דמיאל"}},
			book:  models.EnrichedBook{Title: "שמלת השבת של חנה'לה", Author: "יצחק שויגר-דמיאל"},
			found: true,
		},
		{
			name:  "title and author are case insensitive",
			seed:  []Entry{{Title: "Harry Potter", Author: "J.K. Rowling"}},
			book:  models.EnrichedBook{Title: "harry potter", Author: "j.k. rowling"},
			found: true,
		},
		{
			name:  "series name is case insensitive",
			seed:  []Entry{{Title: "The Hobbit", Author: "Tolkien", Series: "Middle Earth"}},
			book:  models.EnrichedBook{Title: "the hobbit", Author: "tolkien", Series: "middle earth"},
			found: true,
		},
		{
			name:  "no match anywhere",
			seed:  []Entry{{Title: "ספר אחד", Author: "סופר אחד"}},
			book:  models.EnrichedBook{Title: "ספר שני", Author: "סופר שני"},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemStore()
			for _, entry := range tt.seed {
				if _, err := store.Insert(context.Background(), entry); err != nil {
					t.Fatalf("Failed to seed entry: %v", err)
				}
			}

			entry, err := NewService(store).Resolve(context.Background(), tt.book)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.found && entry == nil {
				t.Fatal("Expected a match, got none")
			}
			if !tt.found && entry != nil {
				t.Fatalf("Expected no match, got %+v", entry)
			}
		})
	}
}

func TestResolveISBNBeforeTitle(t *testing.T) {
	store := NewMemStore()
	byISBN, err := store.Insert(context.Background(), Entry{Title: "מהדורה ישנה", ISBN: "9789651312345"})
	if err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}
	if _, err := store.Insert(context.Background(), Entry{Title: "הנסיך הקטן", Author: "אנטואן דה סנט-אכזופרי"}); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	entry, err := NewService(store).Resolve(context.Background(), models.EnrichedBook{
		Title:  "הנסיך הקטן",
		Author: "אנטואן דה סנט-אכזופרי",
		ISBN:   "9789651312345",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if entry == nil || entry.ID != byISBN.ID {
		t.Errorf("Expected the ISBN lookup to win, got %+v", entry)
	}
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"978-0-7475-3269-9", "9780747532699"},
		{" 978 0747 532699 ", "9780747532699"},
		{"0", ""},
		{"", ""},
		{"9789654487733", "9789654487733"},
	}
	for _, tt := range tests {
		if got := normalizeISBN(tt.in); got != tt.want {
			t.Errorf("normalizeISBN(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestUsableISBN(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9780747532699", true},
		{"0747532699", true},
		{"978", false},
		{"0", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := usableISBN(tt.in); got != tt.want {
			t.Errorf("usableISBN(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}
