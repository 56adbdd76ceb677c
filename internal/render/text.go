package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HendryAvila/brickworld/internal/scene"
)

// Terminal renders blocks as two-character colored cells, one row per z.
// Empty cells show a dim dot. An empty scene renders as an empty string.
func Terminal(blocks []scene.PlacedBlock) (string, error) {
	grid, err := TopDown(blocks)
	if err != nil {
		return "", err
	}
	if len(grid.Rows) == 0 {
		return "", nil
	}

	styles := map[string]lipgloss.Style{}
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6E68")).Render("· ")

	var sb strings.Builder
	for z, row := range grid.Rows {
		if z > 0 {
			sb.WriteByte('\n')
		}
		for _, tc := range row {
			if tc.Empty() {
				sb.WriteString(empty)
				continue
			}
			hex := colorOf(tc.Color).hex()
			st, ok := styles[hex]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
				styles[hex] = st
			}
			sb.WriteString(st.Render("██"))
		}
	}
	return sb.String(), nil
}

// ASCII renders blocks as a letter grid for clients that cannot show color.
// Each distinct color gets a letter in order of first appearance; a legend
// follows the grid. Empty cells are '.'.
func ASCII(blocks []scene.PlacedBlock) (string, error) {
	grid, err := TopDown(blocks)
	if err != nil {
		return "", err
	}
	if len(grid.Rows) == 0 {
		return "(empty scene)", nil
	}

	letters := map[string]byte{}
	var order []string
	letterFor := func(color string) byte {
		if l, ok := letters[color]; ok {
			return l
		}
		l := byte('?')
		if n := len(order); n < 26 {
			l = byte('A' + n)
		} else if n < 52 {
			l = byte('a' + n - 26)
		}
		letters[color] = l
		order = append(order, color)
		return l
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "x %d..%d, z %d..%d\n", grid.Bounds.MinX, grid.Bounds.MaxX, grid.Bounds.MinZ, grid.Bounds.MaxZ)
	for _, row := range grid.Rows {
		for _, tc := range row {
			if tc.Empty() {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(letterFor(tc.Color))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\nLegend:\n")
	for _, color := range order {
		fmt.Fprintf(&sb, "  %c = %s\n", letters[color], color)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
