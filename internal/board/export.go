package board

import (
	"fmt"
	"slices"
	"strings"

	"github.com/youruser/boardgen/internal/config"
)

// ExportText lists the board's tiles in number order, one per line, with
// unlocked tiles checked.
func ExportText(f *config.BoardFile) string {
	lines := []string{}
	if f.Name != "" {
		lines = append(lines, "# "+f.Name)
	}
	tiles := slices.Clone(f.Tiles)
	slices.SortStableFunc(tiles, func(a, b config.TileFile) int { return a.Number - b.Number })
	for _, t := range tiles {
		mark := " "
		if t.Unlocked {
			mark = "x"
		}
		lines = append(lines, fmt.Sprintf("%2d [%s] %s", t.Number, mark, t.Name))
	}
	return strings.Join(lines, "\n")
}
