package ocr

import "math"

// DefaultClusterGap is the vertical distance in pixels beyond which two
// fragments are considered to belong to different shelf regions.
const DefaultClusterGap = 100

// GroupBlocks clusters fragments by vertical proximity. Fragments are walked
// in the order given (ExtractText already sorts them top-to-bottom) and a new
// group starts whenever the vertical distance to the previous fragment exceeds
// the threshold. Groups approximate shelf rows or book clusters; they carry no
// semantics beyond "visually near". Concatenating the groups in order yields
// the input sequence unchanged.
func GroupBlocks(blocks []Block, gap float64) [][]Block {
	if gap <= 0 {
		gap = DefaultClusterGap
	}
	if len(blocks) == 0 {
		return nil
	}

	groups := [][]Block{{blocks[0]}}
	for _, block := range blocks[1:] {
		current := groups[len(groups)-1]
		previous := current[len(current)-1]
		if math.Abs(block.Position.CenterY-previous.Position.CenterY) > gap {
			groups = append(groups, []Block{block})
		} else {
			groups[len(groups)-1] = append(current, block)
		}
	}

	return groups
}
