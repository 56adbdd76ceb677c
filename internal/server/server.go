// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens storage, restores the saved session
// and theme, and injects the shared state into the tools, prompts and
// resources that depend on it. No game logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/brickworld/internal/config"
	"github.com/HendryAvila/brickworld/internal/creations"
	"github.com/HendryAvila/brickworld/internal/kv"
	"github.com/HendryAvila/brickworld/internal/prompts"
	"github.com/HendryAvila/brickworld/internal/render"
	"github.com/HendryAvila/brickworld/internal/resources"
	"github.com/HendryAvila/brickworld/internal/scene"
	"github.com/HendryAvila/brickworld/internal/theme"
	"github.com/HendryAvila/brickworld/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// app holds the state shared by every MCP handler.
type app struct {
	store   kv.Store
	scene   *scene.Store
	adapter *creations.Adapter
	themes  *theme.Selector
	export  render.PNGOptions
	logger  *zap.Logger
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function stops session autosave and closes the
// storage backend. It is always non-nil and safe to call on error.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return nil, noop, err
	}

	stopAutosave := a.autosave()
	cleanup := func() {
		stopAutosave()
		if err := a.store.Close(); err != nil {
			logger.Warn("closing storage", zap.Error(err))
		}
	}

	s := server.NewMCPServer(
		"brickworld",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)
	a.register(s)

	return s, cleanup, nil
}

// newApp opens storage and restores the previous session and theme.
// Unreadable session or theme state is logged and skipped.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	store, err := kv.Open(ctx, cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}

	sc := scene.New(scene.WithHistoryLimit(cfg.Scene.HistoryLimit))
	a := &app{
		store:   store,
		scene:   sc,
		adapter: creations.NewAdapter(store, sc),
		themes:  theme.NewSelector(),
		export:  render.PNGOptions{CellSize: cfg.Export.CellSize, Padding: cfg.Export.Padding},
		logger:  logger,
	}

	status, err := a.adapter.RestoreSession(ctx)
	switch {
	case err != nil:
		logger.Warn("restoring session", zap.Error(err))
	case status == creations.StatusParseError:
		logger.Warn("saved session is unreadable, starting empty")
	case status == creations.StatusOK:
		logger.Info("session restored", zap.Int("blocks", len(sc.Blocks())))
	}

	found, err := theme.Load(ctx, store, a.themes)
	if err != nil {
		logger.Warn("loading theme state", zap.Error(err))
	}
	logger.Debug("theme selected",
		zap.String("theme", a.themes.Current().ID),
		zap.Bool("auto", a.themes.AutoDetect()),
		zap.Bool("persisted", found),
	)

	return a, nil
}

// autosave writes the session snapshot after every scene change.
func (a *app) autosave() func() {
	return a.scene.Subscribe(func(e scene.Event) {
		if err := a.adapter.SaveSession(context.Background()); err != nil {
			a.logger.Warn("saving session", zap.String("event", string(e.Kind)), zap.Error(err))
		}
	})
}

func (a *app) register(s *server.MCPServer) {
	// --- Scene tools ---

	place := tools.NewPlaceTool(a.scene)
	s.AddTool(place.Definition(), place.Handle)

	remove := tools.NewRemoveTool(a.scene)
	s.AddTool(remove.Definition(), remove.Handle)

	click := tools.NewClickTool(a.scene)
	s.AddTool(click.Definition(), click.Handle)

	selectBlock := tools.NewSelectBlockTool(a.scene)
	s.AddTool(selectBlock.Definition(), selectBlock.Handle)

	selectColor := tools.NewSelectColorTool(a.scene, a.themes)
	s.AddTool(selectColor.Definition(), selectColor.Handle)

	rotate := tools.NewRotateTool(a.scene)
	s.AddTool(rotate.Definition(), rotate.Handle)

	toggleDelete := tools.NewToggleDeleteModeTool(a.scene)
	s.AddTool(toggleDelete.Definition(), toggleDelete.Handle)

	undo := tools.NewUndoTool(a.scene)
	s.AddTool(undo.Definition(), undo.Handle)

	clearScene := tools.NewClearTool(a.scene)
	s.AddTool(clearScene.Definition(), clearScene.Handle)

	view := tools.NewViewTool(a.scene)
	s.AddTool(view.Definition(), view.Handle)

	catalogList := tools.NewCatalogListTool()
	s.AddTool(catalogList.Definition(), catalogList.Handle)

	// --- Creation tools ---

	save := tools.NewSaveTool(a.adapter)
	s.AddTool(save.Definition(), save.Handle)

	load := tools.NewLoadTool(a.adapter)
	s.AddTool(load.Definition(), load.Handle)

	list := tools.NewListTool(a.adapter)
	s.AddTool(list.Definition(), list.Handle)

	del := tools.NewDeleteTool(a.adapter)
	s.AddTool(del.Definition(), del.Handle)

	exportPNG := tools.NewExportPNGTool(a.adapter, a.scene, a.export)
	s.AddTool(exportPNG.Definition(), exportPNG.Handle)

	// --- Theme tools ---

	themeGet := tools.NewThemeGetTool(a.themes)
	s.AddTool(themeGet.Definition(), themeGet.Handle)

	themeList := tools.NewThemeListTool(a.themes)
	s.AddTool(themeList.Definition(), themeList.Handle)

	themeSet := tools.NewThemeSetTool(a.themes, a.store)
	s.AddTool(themeSet.Definition(), themeSet.Handle)

	themeToggle := tools.NewThemeToggleAutoTool(a.themes, a.store)
	s.AddTool(themeToggle.Definition(), themeToggle.Handle)

	themeRefresh := tools.NewThemeRefreshTool(a.themes, a.store)
	s.AddTool(themeRefresh.Definition(), themeRefresh.Handle)

	// --- Prompts ---

	buildPrompt := prompts.NewBuildPrompt()
	s.AddPrompt(buildPrompt.Definition(), buildPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Resources ---

	rh := resources.NewHandler(a.scene, a.themes)
	s.AddResource(rh.SceneResource(), rh.HandleScene)
	s.AddResource(rh.ThemeResource(), rh.HandleTheme)
}

// noop is the cleanup returned when construction fails.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use brickworld effectively.
func serverInstructions() string {
	return `You have access to brickworld, a block-building sandbox.

## The world
- The baseplate is a grid of studs. x and z are ground coordinates, y is the
  height in plates. A brick is 3 plates tall, a plate or tile is 1.
- A block's position is its minimum corner. Rotation 90 or 270 swaps its
  width and depth.
- Blocks may overlap; nothing is rejected. Stack by placing at a higher y.

## Building
1. Pick the block type with scene_select_block (see catalog_list).
2. Pick a color with scene_select_color. Palette ids from theme_get work,
   and so does any hex value like #C91A09.
3. Rotate with scene_rotate, then place with scene_place.
4. scene_undo reverts the last change. Undo history is bounded and is
   cleared whenever a creation is loaded.
5. scene_view shows the scene as a summary, JSON, or a top-down grid.

## Delete mode
scene_toggle_delete_mode switches scene_click between placing and removing.
In delete mode, scene_click removes a block by id, or the most recently
placed block anchored at the clicked position.

## Creations
- creation_save stores the scene under a name. Names are case-insensitive
  and runs of whitespace count as one underscore, so "My Build" and
  "my   build" are the same creation. Saving again overwrites.
- creation_load replaces the scene with a saved creation.
- creation_export_png renders the scene, or a saved creation, to a PNG file.

## Themes
Themes follow the calendar by default. theme_set pins one; theme_toggle_auto
returns to seasonal selection.

The scene and theme persist between sessions automatically.`
}
