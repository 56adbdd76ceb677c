// Package catalog holds the static block-type definitions used by the scene.
//
// Block types are read-only reference data: a placed block only stores the
// type ID, and everything about its shape is looked up here.
package catalog

import "fmt"

// Grid units. Width and depth are measured in studs along x and z, height in
// plate units along y (three plates stack to one brick).
const (
	PlateHeight = 1
	BrickHeight = 3
)

// DefaultTypeID is the block type selected when a fresh scene starts.
const DefaultTypeID = "brick_2x2"

// BlockType describes the footprint of a placeable block.
type BlockType struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Depth  int    `json:"depth"`
	Height int    `json:"height"`
}

// Cell is one x/z grid square covered by a block.
type Cell struct {
	X int
	Z int
}

// builtin is ordered the way the palette shows them: bricks, plates, specials.
var builtin = []BlockType{
	{ID: "brick_1x1", Name: "Brick 1×1", Width: 1, Depth: 1, Height: BrickHeight},
	{ID: "brick_1x2", Name: "Brick 1×2", Width: 1, Depth: 2, Height: BrickHeight},
	{ID: "brick_1x4", Name: "Brick 1×4", Width: 1, Depth: 4, Height: BrickHeight},
	{ID: "brick_2x2", Name: "Brick 2×2", Width: 2, Depth: 2, Height: BrickHeight},
	{ID: "brick_2x4", Name: "Brick 2×4", Width: 2, Depth: 4, Height: BrickHeight},
	{ID: "plate_1x2", Name: "Plate 1×2", Width: 1, Depth: 2, Height: PlateHeight},
	{ID: "plate_2x2", Name: "Plate 2×2", Width: 2, Depth: 2, Height: PlateHeight},
	{ID: "plate_2x4", Name: "Plate 2×4", Width: 2, Depth: 4, Height: PlateHeight},
	{ID: "tile_1x1", Name: "Tile 1×1", Width: 1, Depth: 1, Height: PlateHeight},
	{ID: "slope_2x2", Name: "Slope 2×2", Width: 2, Depth: 2, Height: BrickHeight},
}

var byID = func() map[string]BlockType {
	m := make(map[string]BlockType, len(builtin))
	for _, bt := range builtin {
		m[bt.ID] = bt
	}
	return m
}()

// All returns every built-in block type in palette order.
func All() []BlockType {
	out := make([]BlockType, len(builtin))
	copy(out, builtin)
	return out
}

// Lookup returns the block type with the given ID.
func Lookup(id string) (BlockType, bool) {
	bt, ok := byID[id]
	return bt, ok
}

// Default returns the block type a new scene starts with.
func Default() BlockType {
	return byID[DefaultTypeID]
}

// Validate returns an error if id is not a known block type.
func Validate(id string) error {
	if _, ok := byID[id]; !ok {
		return fmt.Errorf("unknown block type %q", id)
	}
	return nil
}

// Footprint returns the width and depth after rotating by the given number
// of degrees. Quarter turns swap the axes.
func (bt BlockType) Footprint(rotation int) (width, depth int) {
	switch ((rotation % 360) + 360) % 360 {
	case 90, 270:
		return bt.Depth, bt.Width
	default:
		return bt.Width, bt.Depth
	}
}

// Cells lists the x/z cells covered by a block of this type anchored at
// (x, z), its minimum corner.
func (bt BlockType) Cells(x, z, rotation int) []Cell {
	w, d := bt.Footprint(rotation)
	cells := make([]Cell, 0, w*d)
	for dx := 0; dx < w; dx++ {
		for dz := 0; dz < d; dz++ {
			cells = append(cells, Cell{X: x + dx, Z: z + dz})
		}
	}
	return cells
}
