package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/brickworld/internal/catalog"
)

// CatalogListTool handles the catalog_list MCP tool.
type CatalogListTool struct{}

// NewCatalogListTool creates a CatalogListTool.
func NewCatalogListTool() *CatalogListTool {
	return &CatalogListTool{}
}

// Definition returns the MCP tool definition for catalog_list.
func (t *CatalogListTool) Definition() mcp.Tool {
	return mcp.NewTool("catalog_list",
		mcp.WithDescription("List the block types that can be selected with scene_select_block, with their footprints."),
	)
}

// Handle processes the catalog_list tool call.
func (t *CatalogListTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString("| Type | Name | Footprint (studs) | Height (plates) |\n")
	sb.WriteString("|------|------|-------------------|-----------------|\n")
	for _, bt := range catalog.All() {
		marker := ""
		if bt.ID == catalog.DefaultTypeID {
			marker = " (default)"
		}
		fmt.Fprintf(&sb, "| `%s`%s | %s | %d×%d | %d |\n", bt.ID, marker, bt.Name, bt.Width, bt.Depth, bt.Height)
	}
	sb.WriteString("\nRotating 90° or 270° swaps the footprint. Positions anchor the block's minimum x/z corner.")
	return mcp.NewToolResultText(sb.String()), nil
}
