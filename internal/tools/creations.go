package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/brickworld/internal/creations"
	"github.com/HendryAvila/brickworld/internal/render"
	"github.com/HendryAvila/brickworld/internal/scene"
)

// Creation names are passed through untrimmed: surrounding whitespace is
// part of the normalized key.

// ─── SaveTool ───────────────────────────────────────────────────────────────

// SaveTool handles the creation_save MCP tool.
type SaveTool struct {
	adapter *creations.Adapter
}

// NewSaveTool creates a SaveTool.
func NewSaveTool(a *creations.Adapter) *SaveTool {
	return &SaveTool{adapter: a}
}

// Definition returns the MCP tool definition for creation_save.
func (t *SaveTool) Definition() mcp.Tool {
	return mcp.NewTool("creation_save",
		mcp.WithDescription(
			"Save the current blocks as a named creation. Names are matched case-insensitively with "+
				"whitespace runs collapsed, so 'My Build' and 'my   build' are the same creation; "+
				"saving again overwrites it.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Display name of the creation"),
		),
	)
}

// Handle processes the creation_save tool call.
func (t *SaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	c, err := t.adapter.Save(ctx, name)
	if err != nil {
		if errors.Is(err, creations.ErrEmptyName) {
			return mcp.NewToolResultError("'name' is required"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to save creation: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Saved %q (%d blocks) at %s\nKey: %s",
		c.Name, len(c.Blocks), c.SavedAt, creations.Key(name),
	)), nil
}

// ─── LoadTool ───────────────────────────────────────────────────────────────

// LoadTool handles the creation_load MCP tool.
type LoadTool struct {
	adapter *creations.Adapter
}

// NewLoadTool creates a LoadTool.
func NewLoadTool(a *creations.Adapter) *LoadTool {
	return &LoadTool{adapter: a}
}

// Definition returns the MCP tool definition for creation_load.
func (t *LoadTool) Definition() mcp.Tool {
	return mcp.NewTool("creation_load",
		mcp.WithDescription(
			"Replace the scene with a saved creation. The undo history is reset. "+
				"If the creation is missing or unreadable the scene is left as it is.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the creation to load"),
		),
	)
}

// Handle processes the creation_load tool call.
func (t *LoadTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	res, err := t.adapter.Load(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load creation: %v", err)), nil
	}

	switch res.Status {
	case creations.StatusOK:
		return mcp.NewToolResultText(fmt.Sprintf(
			"Loaded %q (%d blocks, saved %s). Undo history cleared.",
			res.Creation.Name, len(res.Creation.Blocks), res.Creation.SavedAt,
		)), nil
	case creations.StatusNotFound:
		return mcp.NewToolResultError(fmt.Sprintf("No creation named %q. Use creation_list to see saved creations.", name)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Creation %q could not be read: %s", name, res.Reason)), nil
	}
}

// ─── ListTool ───────────────────────────────────────────────────────────────

// ListTool handles the creation_list MCP tool.
type ListTool struct {
	adapter *creations.Adapter
}

// NewListTool creates a ListTool.
func NewListTool(a *creations.Adapter) *ListTool {
	return &ListTool{adapter: a}
}

// Definition returns the MCP tool definition for creation_list.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("creation_list",
		mcp.WithDescription("List saved creations with their block counts and save times."),
	)
}

// Handle processes the creation_list tool call.
func (t *ListTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := t.adapter.Summaries(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list creations: %v", err)), nil
	}
	if len(summaries) == 0 {
		return mcp.NewToolResultText("No saved creations yet. Use creation_save to save the scene."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Creations (%d)\n\n", len(summaries))
	sb.WriteString("| Name | Blocks | Saved |\n")
	sb.WriteString("|------|--------|-------|\n")
	for _, s := range summaries {
		fmt.Fprintf(&sb, "| %s | %d | %s |\n", s.Name, s.BlockCount, s.SavedAt)
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// ─── DeleteTool ─────────────────────────────────────────────────────────────

// DeleteTool handles the creation_delete MCP tool.
type DeleteTool struct {
	adapter *creations.Adapter
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(a *creations.Adapter) *DeleteTool {
	return &DeleteTool{adapter: a}
}

// Definition returns the MCP tool definition for creation_delete.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("creation_delete",
		mcp.WithDescription("Delete a saved creation. Deleting a name that does not exist is not an error."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the creation to delete"),
		),
	)
}

// Handle processes the creation_delete tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	if err := t.adapter.Delete(ctx, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete creation: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %q (if it existed).", name)), nil
}

// ─── ExportPNGTool ──────────────────────────────────────────────────────────

// ExportPNGTool handles the creation_export_png MCP tool.
type ExportPNGTool struct {
	adapter *creations.Adapter
	scene   *scene.Store
	opts    render.PNGOptions
}

// NewExportPNGTool creates an ExportPNGTool.
func NewExportPNGTool(a *creations.Adapter, sc *scene.Store, opts render.PNGOptions) *ExportPNGTool {
	return &ExportPNGTool{adapter: a, scene: sc, opts: opts}
}

// Definition returns the MCP tool definition for creation_export_png.
func (t *ExportPNGTool) Definition() mcp.Tool {
	return mcp.NewTool("creation_export_png",
		mcp.WithDescription(
			"Write a top-down PNG of a saved creation, or of the current scene when no name is given. "+
				"The scene is not modified.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Output file path; .png is appended if missing"),
		),
		mcp.WithString("name",
			mcp.Description("Saved creation to export (default: current scene)"),
		),
	)
}

// Handle processes the creation_export_png tool call.
func (t *ExportPNGTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := trimmedString(req, "path")
	if path == "" {
		return mcp.NewToolResultError("'path' is required"), nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}

	blocks := t.scene.Blocks()
	source := "current scene"
	if name := req.GetString("name", ""); strings.TrimSpace(name) != "" {
		res, err := t.adapter.Peek(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read creation: %v", err)), nil
		}
		switch res.Status {
		case creations.StatusNotFound:
			return mcp.NewToolResultError(fmt.Sprintf("No creation named %q.", name)), nil
		case creations.StatusParseError:
			return mcp.NewToolResultError(fmt.Sprintf("Creation %q could not be read: %s", name, res.Reason)), nil
		}
		blocks = res.Creation.Blocks
		source = fmt.Sprintf("creation %q", res.Creation.Name)
	}

	if err := render.SavePNG(path, blocks, t.opts); err != nil {
		if errors.Is(err, render.ErrEmptyScene) {
			return mcp.NewToolResultError(fmt.Sprintf("The %s has no blocks to export.", source)), nil
		}
		if errors.Is(err, render.ErrSceneTooLarge) {
			return mcp.NewToolResultError(fmt.Sprintf("The %s cannot be exported: %v", source, err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to export png: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Exported %s (%d blocks) to %s", source, len(blocks), path)), nil
}
