// Package tools implements the MCP tool handlers for brickworld.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes:
//   - Definition() returning the mcp.Tool schema
//   - Handle() processing a CallToolRequest
//
// Handlers report user-facing failures with mcp.NewToolResultError and
// reserve the Go error return for nothing; the server never sees a
// transport-level error from a tool.
package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/brickworld/internal/scene"
)

// MaxCoordinate bounds every grid coordinate a tool accepts, on each axis.
const MaxCoordinate = 1_000_000

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing, not a whole number, or outside the
// int32 range (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok || v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return defaultVal
	}
	return int(v)
}

// requiredInt extracts an integer argument that must be present, whole and
// within [lo, hi].
func requiredInt(req mcp.CallToolRequest, key string, lo, hi int) (int, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("'%s' is required", key)
	}
	v, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("'%s' must be a number", key)
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("'%s' must be a whole number, got %v", key, v)
	}
	if v < float64(lo) || v > float64(hi) {
		return 0, fmt.Errorf("'%s' must be between %d and %d, got %v", key, lo, hi, v)
	}
	return int(v), nil
}

// hasArg reports whether the request carries a non-nil value for key.
func hasArg(req mcp.CallToolRequest, key string) bool {
	v, ok := req.GetArguments()[key]
	return ok && v != nil
}

// positionArg reads the x, y and z arguments, each within ±MaxCoordinate.
func positionArg(req mcp.CallToolRequest) (scene.Position, error) {
	var pos scene.Position
	for i, key := range []string{"x", "y", "z"} {
		v, err := requiredInt(req, key, -MaxCoordinate, MaxCoordinate)
		if err != nil {
			return pos, err
		}
		pos[i] = v
	}
	return pos, nil
}

// withPosition adds the x/y/z grid coordinate parameters to a tool.
func withPosition(required bool) []mcp.ToolOption {
	opts := make([]mcp.ToolOption, 0, 3)
	for _, axis := range []struct{ name, desc string }{
		{"x", "Grid x coordinate (studs)"},
		{"y", "Grid y coordinate (plate units, 0 = ground; a brick is 3 plates tall)"},
		{"z", "Grid z coordinate (studs)"},
	} {
		props := []mcp.PropertyOption{
			mcp.Description(axis.desc),
			mcp.Min(-MaxCoordinate),
			mcp.Max(MaxCoordinate),
		}
		if required {
			props = append(props, mcp.Required())
		}
		opts = append(opts, mcp.WithNumber(axis.name, props...))
	}
	return opts
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// describeBlock formats a placed block for tool output.
func describeBlock(b scene.PlacedBlock) string {
	return fmt.Sprintf("%s %s at %s, rotation %d°, color %s", b.ID, b.TypeID, b.Position, b.Rotation, b.Color)
}

// describeSelection formats the tool selection for tool output.
func describeSelection(sel scene.Selection) string {
	mode := "place"
	if sel.DeleteMode {
		mode = "delete"
	}
	return fmt.Sprintf("type=%s color=%s rotation=%d° mode=%s", sel.TypeID, sel.Color, sel.Rotation, mode)
}

// trimmedString reads a string argument with surrounding whitespace removed.
func trimmedString(req mcp.CallToolRequest, key string) string {
	return strings.TrimSpace(req.GetString(key, ""))
}
