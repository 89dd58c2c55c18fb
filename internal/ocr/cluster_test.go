package ocr

import "testing"

func blockAt(text string, centerY float64) Block {
	return Block{
		Text:     text,
		Position: Position{CenterY: centerY, Top: centerY - 10},
	}
}

func TestGroupBlocks(t *testing.T) {
	tests := []struct {
		name       string
		blocks     []Block
		gap        float64
		wantGroups [][]string
	}{
		{
			name:       "empty input",
			blocks:     nil,
			gap:        100,
			wantGroups: nil,
		},
		{
			name:       "single fragment",
			blocks:     []Block{blockAt("הארי", 50)},
			gap:        100,
			wantGroups: [][]string{{"הארי"}},
		},
		{
			name: "near fragments share a group",
			blocks: []Block{
				blockAt("הארי", 50),
				blockAt("פוטר", 120),
			},
			gap:        100,
			wantGroups: [][]string{{"הארי", "פוטר"}},
		},
		{
			name: "distant fragments split",
			blocks: []Block{
				blockAt("מדף עליון", 50),
				blockAt("מדף תחתון", 400),
			},
			gap:        100,
			wantGroups: [][]string{{"מדף עליון"}, {"מדף תחתון"}},
		},
		{
			name: "gap exactly at threshold stays together",
			blocks: []Block{
				blockAt("א", 100),
				blockAt("ב", 200),
			},
			gap:        100,
			wantGroups: [][]string{{"א", "ב"}},
		},
		{
			name: "two close spines and one far shelf",
			blocks: []Block{
				blockAt("הארי", 10),
				blockAt("פוטר", 14),
				blockAt("מטילדה", 200),
			},
			gap:        100,
			wantGroups: [][]string{{"הארי", "פוטר"}, {"מטילדה"}},
		},
		{
			name: "chain keeps extending one group",
			blocks: []Block{
				blockAt("א", 0),
				blockAt("ב", 90),
				blockAt("ג", 180),
				blockAt("ד", 500),
			},
			gap:        100,
			wantGroups: [][]string{{"א", "ב", "ג"}, {"ד"}},
		},
		{
			name: "input order is preserved",
			blocks: []Block{
				blockAt("תחתון", 400),
				blockAt("עליון", 50),
			},
			gap:        100,
			wantGroups: [][]string{{"תחתון"}, {"עליון"}},
		},
		{
			name: "upward jump also splits",
			blocks: []Block{
				blockAt("א", 300),
				blockAt("ב", 320),
				blockAt("ג", 10),
			},
			gap:        100,
			wantGroups: [][]string{{"א", "ב"}, {"ג"}},
		},
		{
			name: "zero gap falls back to default",
			blocks: []Block{
				blockAt("א", 0),
				blockAt("ב", 90),
			},
			gap:        0,
			wantGroups: [][]string{{"א", "ב"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupBlocks(tt.blocks, tt.gap)
			if len(groups) != len(tt.wantGroups) {
				t.Fatalf("GroupBlocks() produced %d groups, want %d", len(groups), len(tt.wantGroups))
			}
			for i, group := range groups {
				if len(group) != len(tt.wantGroups[i]) {
					t.Fatalf("group %d has %d fragments, want %d", i, len(group), len(tt.wantGroups[i]))
				}
				for j, block := range group {
					if block.Text != tt.wantGroups[i][j] {
						t.Errorf("group %d fragment %d = %q, want %q", i, j, block.Text, tt.wantGroups[i][j])
					}
				}
			}
		})
	}
}

func TestGroupBlocksDoesNotMutateInput(t *testing.T) {
	blocks := []Block{
		blockAt("ב", 400),
		blockAt("א", 50),
	}

	GroupBlocks(blocks, 100)

	if blocks[0].Text != "ב" || blocks[1].Text != "א" {
		t.Error("GroupBlocks() reordered the caller's slice")
	}
}

func TestGroupBlocksConcatenationReconstructsInput(t *testing.T) {
	blocks := []Block{
		blockAt("שם", 10),
		blockAt("הספר", 30),
		blockAt("מחבר", 180),
		blockAt("סדרה", 195),
		blockAt("כרך", 600),
	}

	groups := GroupBlocks(blocks, 100)

	var flat []Block
	for _, group := range groups {
		flat = append(flat, group...)
	}
	if len(flat) != len(blocks) {
		t.Fatalf("groups hold %d fragments, want %d", len(flat), len(blocks))
	}
	for i, block := range flat {
		if block.Text != blocks[i].Text {
			t.Errorf("fragment %d = %q, want %q", i, block.Text, blocks[i].Text)
		}
	}
}
