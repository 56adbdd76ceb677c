// Package render draws a scene from above: as a PNG, as colored terminal
// cells, or as a plain letter grid for text-only clients.
//
// All renderers share the same top-down projection: for every x/z cell the
// visible block is the one whose top is highest, with later placements
// winning ties.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/HendryAvila/brickworld/internal/catalog"
	"github.com/HendryAvila/brickworld/internal/scene"
)

// ErrEmptyScene is returned by image renderers when there is nothing to draw.
var ErrEmptyScene = errors.New("nothing to render: scene is empty")

// ErrSceneTooLarge is returned when the blocks span more than MaxSpan cells
// along x or z.
var ErrSceneTooLarge = errors.New("scene too large to render")

// MaxSpan is the widest extent, in studs, a top-down render covers on
// either axis.
const MaxSpan = 256

// Rect is an inclusive range of x/z cells.
type Rect struct {
	MinX, MinZ int
	MaxX, MaxZ int
}

// Width is the number of cells along x, saturating at math.MaxInt.
func (r Rect) Width() int { return extent(r.MinX, r.MaxX) }

// Depth is the number of cells along z, saturating at math.MaxInt.
func (r Rect) Depth() int { return extent(r.MinZ, r.MaxZ) }

// extent returns hi-lo+1 without overflowing. Requires lo <= hi.
func extent(lo, hi int) int {
	d := uint64(hi) - uint64(lo)
	if d >= math.MaxInt {
		return math.MaxInt
	}
	return int(d) + 1
}

// checkSize reports ErrSceneTooLarge when r exceeds MaxSpan on either axis.
func (r Rect) checkSize() error {
	if w, d := r.Width(), r.Depth(); w > MaxSpan || d > MaxSpan {
		return fmt.Errorf("%w: blocks span x %d..%d, z %d..%d (limit %d×%d studs)",
			ErrSceneTooLarge, r.MinX, r.MaxX, r.MinZ, r.MaxZ, MaxSpan, MaxSpan)
	}
	return nil
}

// TopCell is the visible block at one grid cell.
type TopCell struct {
	BlockID string
	Color   string
	Top     int
}

// Empty reports whether no block covers the cell.
func (c TopCell) Empty() bool { return c.BlockID == "" }

// Grid is the top-down projection of a scene. Rows are indexed by z, then x,
// relative to Bounds.
type Grid struct {
	Bounds Rect
	Rows   [][]TopCell
}

// At returns the cell at absolute grid coordinates.
func (g Grid) At(x, z int) TopCell {
	if x < g.Bounds.MinX || x > g.Bounds.MaxX || z < g.Bounds.MinZ || z > g.Bounds.MaxZ {
		return TopCell{}
	}
	return g.Rows[z-g.Bounds.MinZ][x-g.Bounds.MinX]
}

// shape resolves a block's type, falling back to a one-stud plate for types
// the catalog no longer knows so stale saves still render.
func shape(b scene.PlacedBlock) catalog.BlockType {
	if bt, ok := catalog.Lookup(b.TypeID); ok {
		return bt
	}
	return catalog.BlockType{ID: b.TypeID, Width: 1, Depth: 1, Height: catalog.PlateHeight}
}

func cellsOf(b scene.PlacedBlock) []catalog.Cell {
	return shape(b).Cells(b.Position.X(), b.Position.Z(), int(b.Rotation))
}

// Bounds returns the smallest Rect covering every block's footprint. The
// second result is false for an empty scene.
func Bounds(blocks []scene.PlacedBlock) (Rect, bool) {
	var r Rect
	found := false
	for _, b := range blocks {
		for _, c := range cellsOf(b) {
			if !found {
				r = Rect{MinX: c.X, MinZ: c.Z, MaxX: c.X, MaxZ: c.Z}
				found = true
				continue
			}
			r.MinX = min(r.MinX, c.X)
			r.MinZ = min(r.MinZ, c.Z)
			r.MaxX = max(r.MaxX, c.X)
			r.MaxZ = max(r.MaxZ, c.Z)
		}
	}
	return r, found
}

// TopDown projects blocks onto the x/z plane. An empty scene yields an
// empty Grid; blocks spread wider than MaxSpan yield ErrSceneTooLarge.
func TopDown(blocks []scene.PlacedBlock) (Grid, error) {
	bounds, ok := Bounds(blocks)
	if !ok {
		return Grid{}, nil
	}
	if err := bounds.checkSize(); err != nil {
		return Grid{}, err
	}

	rows := make([][]TopCell, bounds.Depth())
	for i := range rows {
		rows[i] = make([]TopCell, bounds.Width())
	}

	for _, b := range blocks {
		top := b.Position.Y() + shape(b).Height
		for _, c := range cellsOf(b) {
			cell := &rows[c.Z-bounds.MinZ][c.X-bounds.MinX]
			if cell.Empty() || top >= cell.Top {
				*cell = TopCell{BlockID: b.ID, Color: b.Color, Top: top}
			}
		}
	}
	return Grid{Bounds: bounds, Rows: rows}, nil
}
