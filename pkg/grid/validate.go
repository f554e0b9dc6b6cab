package grid

import "fmt"

// WarningType classifies a structural problem found by Validate.
type WarningType string

const (
	WarnInvalidSize     WarningType = "invalid_size"
	WarnIsolatedRegions WarningType = "isolated_regions"
	WarnShortWords      WarningType = "short_words"
	WarnBrokenSymmetry  WarningType = "broken_symmetry"
)

// StandardSize is the grid size the validator enforces.
const StandardSize = 15

// ShortWord describes a run of white cells too short to be a word.
type ShortWord struct {
	Direction Direction `msgpack:"direction" json:"direction"`
	Row       int       `msgpack:"row" json:"row"`
	Col       int       `msgpack:"col" json:"col"`
	Length    int       `msgpack:"length" json:"length"`
}

// Warning is a single validation finding. Only the payload field matching
// the type is populated.
type Warning struct {
	Type    WarningType `msgpack:"type" json:"type"`
	Message string      `msgpack:"message" json:"message"`
	Regions [][]Coord   `msgpack:"regions,omitempty" json:"regions,omitempty"`
	Cells   []Coord     `msgpack:"cells,omitempty" json:"cells,omitempty"`
	Words   []ShortWord `msgpack:"words,omitempty" json:"words,omitempty"`
}

// Report is the outcome of Validate. Valid is true iff no warnings fired.
type Report struct {
	Valid    bool      `msgpack:"valid" json:"valid"`
	Warnings []Warning `msgpack:"warnings" json:"warnings"`
}

// Validate runs the structural checks on a grid. All checks run
// independently and every triggered warning is returned, except the size
// check: a grid that is not 15x15 fails immediately since the remaining
// checks assume the standard square.
func Validate(g *Grid, symmetry bool) Report {
	var warnings []Warning

	if g.rows != StandardSize || g.cols != StandardSize {
		warnings = append(warnings, Warning{
			Type:    WarnInvalidSize,
			Message: fmt.Sprintf("Grid must be %dx%d", StandardSize, StandardSize),
		})
		return Report{Valid: false, Warnings: warnings}
	}

	if regions := IsolatedRegions(g); len(regions) > 0 {
		warnings = append(warnings, Warning{
			Type:    WarnIsolatedRegions,
			Message: fmt.Sprintf("Grid has %d isolated white region(s)", len(regions)),
			Regions: regions,
		})
	}

	if words := ShortWords(g); len(words) > 0 {
		warnings = append(warnings, Warning{
			Type:    WarnShortWords,
			Message: fmt.Sprintf("Found %d word(s) shorter than %d letters", len(words), MinSlotLength),
			Words:   words,
		})
	}

	if symmetry {
		if broken := BrokenSymmetry(g); len(broken) > 0 {
			warnings = append(warnings, Warning{
				Type:    WarnBrokenSymmetry,
				Message: fmt.Sprintf("Found %d cell(s) breaking rotational symmetry", len(broken)),
				Cells:   broken,
			})
		}
	}

	return Report{Valid: len(warnings) == 0, Warnings: warnings}
}

// IsolatedRegions flood-fills the white cells (4-directional) and returns
// every connected region except the largest. The first-found maximal
// region wins ties, so region order is stable under the row-major scan.
func IsolatedRegions(g *Grid) [][]Coord {
	visited := make([][]bool, g.rows)
	for r := range visited {
		visited[r] = make([]bool, g.cols)
	}

	var regions [][]Coord
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if visited[row][col] || g.IsBlack(row, col) {
				continue
			}
			regions = append(regions, floodFill(g, visited, row, col))
		}
	}

	if len(regions) <= 1 {
		return nil
	}

	largest := 0
	for i, region := range regions {
		if len(region) > len(regions[largest]) {
			largest = i
		}
	}

	isolated := make([][]Coord, 0, len(regions)-1)
	for i, region := range regions {
		if i != largest {
			isolated = append(isolated, region)
		}
	}
	return isolated
}

func floodFill(g *Grid, visited [][]bool, startRow, startCol int) []Coord {
	var region []Coord
	queue := []Coord{{Row: startRow, Col: startCol}}
	visited[startRow][startCol] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		region = append(region, cur)

		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nr, nc := cur.Row+d[0], cur.Col+d[1]
			if g.InBounds(nr, nc) && !visited[nr][nc] && !g.IsBlack(nr, nc) {
				visited[nr][nc] = true
				queue = append(queue, Coord{Row: nr, Col: nc})
			}
		}
	}
	return region
}

// ShortWords returns every maximal run of white cells with length exactly
// 2. Lone white cells are not words and are not flagged.
func ShortWords(g *Grid) []ShortWord {
	var short []ShortWord

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; {
			if g.IsBlack(row, col) {
				col++
				continue
			}
			start := col
			for col < g.cols && !g.IsBlack(row, col) {
				col++
			}
			if length := col - start; length > 1 && length < MinSlotLength {
				short = append(short, ShortWord{Direction: Across, Row: row, Col: start, Length: length})
			}
		}
	}

	for col := 0; col < g.cols; col++ {
		for row := 0; row < g.rows; {
			if g.IsBlack(row, col) {
				row++
				continue
			}
			start := row
			for row < g.rows && !g.IsBlack(row, col) {
				row++
			}
			if length := row - start; length > 1 && length < MinSlotLength {
				short = append(short, ShortWord{Direction: Down, Row: start, Col: col, Length: length})
			}
		}
	}

	return short
}

// BrokenSymmetry compares each cell's black state with its 180-degree
// counterpart and returns the canonical cell of every mismatched pair.
// A pair is reported once, keyed by the cell with the lower scan position.
func BrokenSymmetry(g *Grid) []Coord {
	var broken []Coord
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			mirrorRow := g.rows - 1 - row
			mirrorCol := g.cols - 1 - col
			if g.IsBlack(row, col) == g.IsBlack(mirrorRow, mirrorCol) {
				continue
			}
			if row < mirrorRow || (row == mirrorRow && col < mirrorCol) {
				broken = append(broken, Coord{Row: row, Col: col})
			}
		}
	}
	return broken
}
