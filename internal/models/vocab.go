package models

// Genres is the fixed Hebrew genre vocabulary the extraction prompt offers.
// Values outside this list are dropped during candidate validation.
var Genres = []string{
	"ילדים",      // children
	"נוער",       // young adult
	"פנטזיה",     // fantasy
	"מדע בדיוני", // science fiction
	"מתח",        // suspense
	"הרפתקאות",   // adventure
	"רומן",       // novel
	"עיון",       // non-fiction
	"ביוגרפיה",   // biography
	"שירה",       // poetry
	"קומיקס",     // comics
	"ספרי לימוד", // textbooks
}

// AgeRanges is the fixed age-bracket vocabulary, youngest first.
var AgeRanges = []string{
	"0-3",
	"3-6",
	"6-9",
	"9-12",
	"12-15",
	"15-18",
	"מבוגרים",
}

func IsGenre(s string) bool {
	for _, g := range Genres {
		if s == g {
			return true
		}
	}
	return false
}

func IsAgeRange(s string) bool {
	for _, a := range AgeRanges {
		if s == a {
			return true
		}
	}
	return false
}
