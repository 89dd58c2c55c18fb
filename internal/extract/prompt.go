package extract

import (
	"fmt"
	"strings"

	"github.com/sifriya-app/shelfscan/internal/models"
	"github.com/sifriya-app/shelfscan/internal/ocr"
)

// formatGroups renders the clusterer's output as a compact region summary the
// model can cross-reference against the image.
func formatGroups(groups [][]ocr.Block) string {
	if len(groups) == 0 {
		return "(no text regions detected)"
	}

	var b strings.Builder
	for i, group := range groups {
		texts := make([]string, 0, len(group))
		vertical := 0
		for _, block := range group {
			texts = append(texts, block.Text)
			if block.Orientation == ocr.OrientationVertical {
				vertical++
			}
		}
		note := ""
		if vertical > len(group)/2 {
			note = " [mostly vertical text, likely book spines]"
		}
		fmt.Fprintf(&b, "Region %d%s: %s\n", i+1, note, strings.Join(texts, " "))
	}
	return b.String()
}

// buildDetectionPrompt asks for a strict JSON array of books. The genre and
// age vocabularies are pinned so downstream filtering stays an equality check.
func buildDetectionPrompt(regionSummary string) string {
	return fmt.Sprintf(`You are an expert at identifying books on photographed bookshelves. Most books are in Hebrew; some are in English.

You receive a photo of a bookshelf and an OCR summary. The OCR text was grouped into numbered regions by physical proximity on the shelf: fragments in the same region are near each other, but one region may span several adjacent books, and one book's title may be split across fragments. Book spines are often rotated, so vertical text read top-to-bottom or bottom-to-top is common. Hebrew reads right-to-left.

OCR REGIONS:
%s

INSTRUCTIONS:
1. Use the image as the source of truth and the OCR regions as reading hints.
2. Identify every distinct physical book you can see. Do not merge different books, and do not invent books that are not visible.
3. For each book extract:
   - title: the title exactly as printed (required)
   - author: the author's name if visible or confidently known for this exact book, otherwise ""
   - series: the series name if this book belongs to one, otherwise "". Hebrew series often appear as "<series>, חלק N" on the spine.
   - series_number: the number within the series, otherwise null
   - genre: exactly one of: %s, or "" if unsure
   - age_range: exactly one of: %s, or "" if unsure
4. Do not guess ISBNs, publishers, or anything not requested.

OUTPUT FORMAT:
Respond with ONLY a JSON array, no commentary and no markdown fences:

[
  {"title": "הארי פוטר ואבן החכמים", "author": "ג'יי קיי רולינג", "series": "הארי פוטר", "series_number": 1, "genre": "פנטזיה", "age_range": "9-12"},
  {"title": "...", "author": "", "series": "", "series_number": null, "genre": "", "age_range": ""}
]

If no books are identifiable, respond with [].`,
		regionSummary,
		strings.Join(models.Genres, ", "),
		strings.Join(models.AgeRanges, ", "),
	)
}
