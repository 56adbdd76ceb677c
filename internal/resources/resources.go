// Package resources implements MCP resource handlers for brickworld.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (brickworld://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/brickworld/internal/scene"
	"github.com/HendryAvila/brickworld/internal/theme"
)

const (
	SceneURI = "brickworld://scene/current"
	ThemeURI = "brickworld://theme/current"
)

// Handler manages brickworld resource endpoints.
type Handler struct {
	scene  *scene.Store
	themes *theme.Selector
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(sc *scene.Store, themes *theme.Selector) *Handler {
	return &Handler{scene: sc, themes: themes}
}

// sceneDoc is the payload of the scene resource.
type sceneDoc struct {
	Blocks       []scene.PlacedBlock `json:"blocks"`
	Selection    scene.Selection     `json:"selection"`
	UndoSteps    int                 `json:"undoSteps"`
	HistoryLimit int                 `json:"historyLimit"`
}

// themeDoc is the payload of the theme resource.
type themeDoc struct {
	Theme      theme.Theme `json:"theme"`
	AutoDetect bool        `json:"autoDetect"`
}

// SceneResource returns the MCP resource definition for the live scene.
func (h *Handler) SceneResource() mcp.Resource {
	return mcp.NewResource(
		SceneURI,
		"Current Scene",
		mcp.WithResourceDescription("Placed blocks, the current selection and undo depth"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleScene returns the current scene as JSON.
func (h *Handler) HandleScene(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, sceneDoc{
		Blocks:       h.scene.Blocks(),
		Selection:    h.scene.Selection(),
		UndoSteps:    h.scene.HistoryLen(),
		HistoryLimit: h.scene.HistoryLimit(),
	})
}

// ThemeResource returns the MCP resource definition for the active theme.
func (h *Handler) ThemeResource() mcp.Resource {
	return mcp.NewResource(
		ThemeURI,
		"Current Theme",
		mcp.WithResourceDescription("Active theme, its palette and whether it follows the calendar"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTheme returns the active theme as JSON.
func (h *Handler) HandleTheme(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, themeDoc{
		Theme:      h.themes.Current(),
		AutoDetect: h.themes.AutoDetect(),
	})
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
