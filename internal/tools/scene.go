package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/brickworld/internal/catalog"
	"github.com/HendryAvila/brickworld/internal/render"
	"github.com/HendryAvila/brickworld/internal/scene"
	"github.com/HendryAvila/brickworld/internal/theme"
)

// ─── PlaceTool ──────────────────────────────────────────────────────────────

// PlaceTool handles the scene_place MCP tool.
type PlaceTool struct {
	scene *scene.Store
}

// NewPlaceTool creates a PlaceTool.
func NewPlaceTool(sc *scene.Store) *PlaceTool {
	return &PlaceTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_place.
func (t *PlaceTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Place a block at a grid position using the current selection (block type, color, rotation). " +
				"Overlapping placements are allowed and stack visually.",
		),
	}
	opts = append(opts, withPosition(true)...)
	return mcp.NewTool("scene_place", opts...)
}

// Handle processes the scene_place tool call.
func (t *PlaceTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := positionArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b := t.scene.Place(pos)
	return mcp.NewToolResultText(fmt.Sprintf("Placed %s\nBlocks in scene: %d", describeBlock(b), len(t.scene.Blocks()))), nil
}

// ─── RemoveTool ─────────────────────────────────────────────────────────────

// RemoveTool handles the scene_remove MCP tool.
type RemoveTool struct {
	scene *scene.Store
}

// NewRemoveTool creates a RemoveTool.
func NewRemoveTool(sc *scene.Store) *RemoveTool {
	return &RemoveTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_remove.
func (t *RemoveTool) Definition() mcp.Tool {
	return mcp.NewTool("scene_remove",
		mcp.WithDescription("Remove a placed block by id. Removing an unknown id changes nothing but still takes an undo step."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Block id as shown by scene_view"),
		),
	)
}

// Handle processes the scene_remove tool call.
func (t *RemoveTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := trimmedString(req, "id")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	if !t.scene.Remove(id) {
		return mcp.NewToolResultText(fmt.Sprintf("No block with id %q; nothing removed.", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed %s\nBlocks in scene: %d", id, len(t.scene.Blocks()))), nil
}

// ─── ClickTool ──────────────────────────────────────────────────────────────

// ClickTool handles the scene_click MCP tool: the same action a pointer
// click performs, which depends on the current mode.
type ClickTool struct {
	scene *scene.Store
}

// NewClickTool creates a ClickTool.
func NewClickTool(sc *scene.Store) *ClickTool {
	return &ClickTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_click.
func (t *ClickTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Click the scene. In place mode a block is placed at (x, y, z). " +
				"In delete mode the clicked block is removed: pass its id, or a position to remove the " +
				"most recently placed block anchored there.",
		),
		mcp.WithString("id",
			mcp.Description("Block id to remove (delete mode only)"),
		),
	}
	opts = append(opts, withPosition(false)...)
	return mcp.NewTool("scene_click", opts...)
}

// Handle processes the scene_click tool call.
func (t *ClickTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel := t.scene.Selection()

	if !sel.DeleteMode {
		pos, err := positionArg(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("place mode needs a position: %v", err)), nil
		}
		b := t.scene.Place(pos)
		return mcp.NewToolResultText("Placed " + describeBlock(b)), nil
	}

	id := trimmedString(req, "id")
	if id == "" {
		if !hasArg(req, "x") {
			return mcp.NewToolResultError("delete mode needs a block 'id' or a position"), nil
		}
		pos, err := positionArg(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		removed, ok := t.scene.RemoveAt(pos)
		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("No block anchored at %s; nothing removed.", pos)), nil
		}
		return mcp.NewToolResultText("Removed " + removed), nil
	}

	if !t.scene.Remove(id) {
		return mcp.NewToolResultText(fmt.Sprintf("No block with id %q; nothing removed.", id)), nil
	}
	return mcp.NewToolResultText("Removed " + id), nil
}

// ─── SelectBlockTool ────────────────────────────────────────────────────────

// SelectBlockTool handles the scene_select_block MCP tool.
type SelectBlockTool struct {
	scene *scene.Store
}

// NewSelectBlockTool creates a SelectBlockTool.
func NewSelectBlockTool(sc *scene.Store) *SelectBlockTool {
	return &SelectBlockTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_select_block.
func (t *SelectBlockTool) Definition() mcp.Tool {
	ids := make([]string, 0, len(catalog.All()))
	for _, bt := range catalog.All() {
		ids = append(ids, bt.ID)
	}
	return mcp.NewTool("scene_select_block",
		mcp.WithDescription("Select the block type used by the next placements. Leaves delete mode."),
		mcp.WithString("type_id",
			mcp.Required(),
			mcp.Description("Block type id (see catalog_list)"),
			mcp.Enum(ids...),
		),
	)
}

// Handle processes the scene_select_block tool call.
func (t *SelectBlockTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeID := trimmedString(req, "type_id")
	if typeID == "" {
		return mcp.NewToolResultError("'type_id' is required"), nil
	}
	if err := catalog.Validate(typeID); err != nil {
		return mcp.NewToolResultError(err.Error() + ". Use catalog_list to see available types."), nil
	}
	t.scene.SetSelectedType(typeID)
	return mcp.NewToolResultText("Selection: " + describeSelection(t.scene.Selection())), nil
}

// ─── SelectColorTool ────────────────────────────────────────────────────────

// SelectColorTool handles the scene_select_color MCP tool. Palette color
// ids of the current theme resolve to their hex value; anything else is
// taken as given.
type SelectColorTool struct {
	scene  *scene.Store
	themes *theme.Selector
}

// NewSelectColorTool creates a SelectColorTool. themes may be nil.
func NewSelectColorTool(sc *scene.Store, themes *theme.Selector) *SelectColorTool {
	return &SelectColorTool{scene: sc, themes: themes}
}

// Definition returns the MCP tool definition for scene_select_color.
func (t *SelectColorTool) Definition() mcp.Tool {
	return mcp.NewTool("scene_select_color",
		mcp.WithDescription(
			"Select the color used by the next placements. Accepts a hex value like #C91A09 "+
				"or a color id from the current theme's palette (see theme_get).",
		),
		mcp.WithString("color",
			mcp.Required(),
			mcp.Description("Hex color or palette color id"),
		),
	)
}

// Handle processes the scene_select_color tool call.
func (t *SelectColorTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	color := trimmedString(req, "color")
	if color == "" {
		return mcp.NewToolResultError("'color' is required"), nil
	}

	note := ""
	if t.themes != nil && !strings.HasPrefix(color, "#") {
		if c, ok := t.themes.Current().ColorByID(color); ok {
			note = fmt.Sprintf(" (%s)", c.Name)
			color = c.Hex
		}
	}
	t.scene.SetSelectedColor(color)
	return mcp.NewToolResultText(fmt.Sprintf("Color set to %s%s", color, note)), nil
}

// ─── RotateTool ─────────────────────────────────────────────────────────────

// RotateTool handles the scene_rotate MCP tool.
type RotateTool struct {
	scene *scene.Store
}

// NewRotateTool creates a RotateTool.
func NewRotateTool(sc *scene.Store) *RotateTool {
	return &RotateTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_rotate.
func (t *RotateTool) Definition() mcp.Tool {
	return mcp.NewTool("scene_rotate",
		mcp.WithDescription("Rotate the pending block a quarter turn (0 → 90 → 180 → 270 → 0). Placed blocks are not affected."),
	)
}

// Handle processes the scene_rotate tool call.
func (t *RotateTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := t.scene.Rotate()
	return mcp.NewToolResultText(fmt.Sprintf("Rotation: %d°", r)), nil
}

// ─── ToggleDeleteModeTool ───────────────────────────────────────────────────

// ToggleDeleteModeTool handles the scene_toggle_delete_mode MCP tool.
type ToggleDeleteModeTool struct {
	scene *scene.Store
}

// NewToggleDeleteModeTool creates a ToggleDeleteModeTool.
func NewToggleDeleteModeTool(sc *scene.Store) *ToggleDeleteModeTool {
	return &ToggleDeleteModeTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_toggle_delete_mode.
func (t *ToggleDeleteModeTool) Definition() mcp.Tool {
	return mcp.NewTool("scene_toggle_delete_mode",
		mcp.WithDescription("Switch between place mode and delete mode. The selected block type is kept."),
	)
}

// Handle processes the scene_toggle_delete_mode tool call.
func (t *ToggleDeleteModeTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.scene.ToggleDeleteMode() {
		return mcp.NewToolResultText("Delete mode ON: scene_click removes blocks."), nil
	}
	return mcp.NewToolResultText("Delete mode OFF: scene_click places blocks."), nil
}

// ─── UndoTool ───────────────────────────────────────────────────────────────

// UndoTool handles the scene_undo MCP tool.
type UndoTool struct {
	scene *scene.Store
}

// NewUndoTool creates an UndoTool.
func NewUndoTool(sc *scene.Store) *UndoTool {
	return &UndoTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_undo.
func (t *UndoTool) Definition() mcp.Tool {
	return mcp.NewTool("scene_undo",
		mcp.WithDescription("Undo the last place, remove or clear. The selection is not affected. There is no redo."),
	)
}

// Handle processes the scene_undo tool call.
func (t *UndoTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.scene.Undo() {
		return mcp.NewToolResultText("Nothing to undo."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Undone. Blocks in scene: %d, undo steps left: %d",
		len(t.scene.Blocks()), t.scene.HistoryLen(),
	)), nil
}

// ─── ClearTool ──────────────────────────────────────────────────────────────

// ClearTool handles the scene_clear MCP tool.
type ClearTool struct {
	scene *scene.Store
}

// NewClearTool creates a ClearTool.
func NewClearTool(sc *scene.Store) *ClearTool {
	return &ClearTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_clear.
func (t *ClearTool) Definition() mcp.Tool {
	return mcp.NewTool("scene_clear",
		mcp.WithDescription("Remove every block. Can be undone with scene_undo."),
	)
}

// Handle processes the scene_clear tool call.
func (t *ClearTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.scene.Clear() {
		return mcp.NewToolResultText("Scene is already empty."), nil
	}
	return mcp.NewToolResultText("Scene cleared. Use scene_undo to bring the blocks back."), nil
}

// ─── ViewTool ───────────────────────────────────────────────────────────────

// ViewTool handles the scene_view MCP tool.
type ViewTool struct {
	scene *scene.Store
}

// NewViewTool creates a ViewTool.
func NewViewTool(sc *scene.Store) *ViewTool {
	return &ViewTool{scene: sc}
}

// Definition returns the MCP tool definition for scene_view.
func (t *ViewTool) Definition() mcp.Tool {
	return mcp.NewTool("scene_view",
		mcp.WithDescription(
			"Show the scene. 'summary' lists the selection and blocks, 'json' returns the raw state, "+
				"'grid' draws a top-down letter map.",
		),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.DefaultString("summary"),
			mcp.Enum("summary", "json", "grid"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum blocks listed in summary format (default: 50)"),
		),
	)
}

// sceneView is the json format payload.
type sceneView struct {
	Blocks       []scene.PlacedBlock `json:"blocks"`
	Selection    scene.Selection     `json:"selection"`
	UndoSteps    int                 `json:"undoSteps"`
	HistoryLimit int                 `json:"historyLimit"`
}

// Handle processes the scene_view tool call.
func (t *ViewTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blocks := t.scene.Blocks()

	switch format := req.GetString("format", "summary"); format {
	case "json":
		return jsonResult(sceneView{
			Blocks:       blocks,
			Selection:    t.scene.Selection(),
			UndoSteps:    t.scene.HistoryLen(),
			HistoryLimit: t.scene.HistoryLimit(),
		}), nil
	case "grid":
		grid, err := render.ASCII(blocks)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot draw grid: %v. Use format=summary or json instead.", err)), nil
		}
		return mcp.NewToolResultText(grid), nil
	case "summary":
		return mcp.NewToolResultText(t.summary(blocks, intArg(req, "limit", 50))), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: must be summary, json or grid", format)), nil
	}
}

func (t *ViewTool) summary(blocks []scene.PlacedBlock, limit int) string {
	var sb strings.Builder
	sb.WriteString("## Scene\n\n")
	fmt.Fprintf(&sb, "- **Selection**: %s\n", describeSelection(t.scene.Selection()))
	fmt.Fprintf(&sb, "- **Blocks**: %d\n", len(blocks))
	fmt.Fprintf(&sb, "- **Undo steps**: %d of %d\n", t.scene.HistoryLen(), t.scene.HistoryLimit())

	if len(blocks) == 0 {
		sb.WriteString("\nThe scene is empty. Use scene_place to add blocks.")
		return sb.String()
	}

	if r, ok := render.Bounds(blocks); ok {
		fmt.Fprintf(&sb, "- **Footprint**: %d×%d studs (x %d..%d, z %d..%d)\n",
			r.Width(), r.Depth(), r.MinX, r.MaxX, r.MinZ, r.MaxZ)
	}

	sb.WriteString("\n")
	if limit <= 0 {
		limit = len(blocks)
	}
	for i, b := range blocks {
		if i == limit {
			fmt.Fprintf(&sb, "... and %d more\n", len(blocks)-limit)
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, describeBlock(b))
	}
	return strings.TrimRight(sb.String(), "\n")
}
