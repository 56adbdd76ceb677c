package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/HendryAvila/brickworld/internal/scene"
)

// PNGOptions controls image output. Zero values pick the defaults.
type PNGOptions struct {
	// CellSize is the edge length of one stud in pixels.
	CellSize int
	// Padding is the number of empty cells drawn around the model.
	Padding int
	// Background is the canvas hex color.
	Background string
	// GridColor is the hex color of the grid lines.
	GridColor string
}

// maxImageSide caps the pixel width and height of an exported image.
const maxImageSide = 8192

func (o PNGOptions) withDefaults() PNGOptions {
	if o.CellSize <= 0 {
		o.CellSize = 24
	}
	o.CellSize = min(o.CellSize, maxImageSide)
	o.Padding = min(max(o.Padding, 0), MaxSpan)
	if o.Background == "" {
		o.Background = "#F4F5F6"
	}
	if o.GridColor == "" {
		o.GridColor = "#DCE0E5"
	}
	return o
}

// draw renders the scene into a new context.
func draw(blocks []scene.PlacedBlock, opts PNGOptions) (*gg.Context, error) {
	grid, err := TopDown(blocks)
	if err != nil {
		return nil, err
	}
	if len(grid.Rows) == 0 {
		return nil, ErrEmptyScene
	}
	opts = opts.withDefaults()

	cell := float64(opts.CellSize)
	pad := opts.Padding
	cols := grid.Bounds.Width() + 2*pad
	rows := grid.Bounds.Depth() + 2*pad
	if cols*opts.CellSize > maxImageSide || rows*opts.CellSize > maxImageSide {
		return nil, fmt.Errorf("%w: %d×%d cells at %dpx exceeds %dpx per side",
			ErrSceneTooLarge, cols, rows, opts.CellSize, maxImageSide)
	}

	dc := gg.NewContext(cols*opts.CellSize, rows*opts.CellSize)
	bg := colorOf(opts.Background)
	dc.SetRGB255(bg.r, bg.g, bg.b)
	dc.Clear()

	// Grid lines.
	gc := colorOf(opts.GridColor)
	dc.SetRGB255(gc.r, gc.g, gc.b)
	dc.SetLineWidth(1)
	for i := 0; i <= cols; i++ {
		dc.DrawLine(float64(i)*cell, 0, float64(i)*cell, float64(rows)*cell)
	}
	for i := 0; i <= rows; i++ {
		dc.DrawLine(0, float64(i)*cell, float64(cols)*cell, float64(i)*cell)
	}
	dc.Stroke()

	// Studs: a filled square, a darker outline, and a lighter stud circle.
	for z, row := range grid.Rows {
		for x, tc := range row {
			if tc.Empty() {
				continue
			}
			px := float64(x+pad) * cell
			py := float64(z+pad) * cell
			c := colorOf(tc.Color)

			dc.SetRGB255(c.r, c.g, c.b)
			dc.DrawRectangle(px, py, cell, cell)
			dc.Fill()

			edge := c.scale(0.7)
			dc.SetRGB255(edge.r, edge.g, edge.b)
			dc.SetLineWidth(1.5)
			dc.DrawRectangle(px+0.75, py+0.75, cell-1.5, cell-1.5)
			dc.Stroke()

			stud := c.mix(0.25)
			dc.SetRGB255(stud.r, stud.g, stud.b)
			dc.DrawCircle(px+cell/2, py+cell/2, cell*0.3)
			dc.Fill()
		}
	}
	return dc, nil
}

// PNG writes a top-down image of blocks to w.
func PNG(w io.Writer, blocks []scene.PlacedBlock, opts PNGOptions) error {
	dc, err := draw(blocks, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes a top-down image of blocks to path, creating parent
// directories as needed.
func SavePNG(path string, blocks []scene.PlacedBlock, opts PNGOptions) error {
	dc, err := draw(blocks, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving png %s: %w", path, err)
	}
	return nil
}
