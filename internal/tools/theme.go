package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/brickworld/internal/kv"
	"github.com/HendryAvila/brickworld/internal/theme"
)

// themeState bundles the selector with the storage its state is persisted
// to after every change. store may be nil to skip persistence.
type themeState struct {
	sel   *theme.Selector
	store kv.Store
}

func (s themeState) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return theme.Save(ctx, s.store, s.sel)
}

// result appends a persistence warning to msg when saving failed. The
// in-memory change already happened, so it is not reported as an error.
func (s themeState) result(ctx context.Context, msg string) *mcp.CallToolResult {
	if err := s.persist(ctx); err != nil {
		msg += fmt.Sprintf("\nWARNING: theme state not saved: %v", err)
	}
	return mcp.NewToolResultText(msg)
}

func describeTheme(th theme.Theme, auto bool) string {
	mode := "manual"
	if auto {
		mode = "auto (follows the calendar)"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (`%s`), mode: %s\n\nPalette:\n", th.Emoji, th.Name, th.ID, mode)
	for _, c := range th.Palette {
		fmt.Fprintf(&sb, "- `%s` %s %s\n", c.ID, c.Name, c.Hex)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ─── ThemeGetTool ───────────────────────────────────────────────────────────

// ThemeGetTool handles the theme_get MCP tool.
type ThemeGetTool struct {
	sel *theme.Selector
}

// NewThemeGetTool creates a ThemeGetTool.
func NewThemeGetTool(sel *theme.Selector) *ThemeGetTool {
	return &ThemeGetTool{sel: sel}
}

// Definition returns the MCP tool definition for theme_get.
func (t *ThemeGetTool) Definition() mcp.Tool {
	return mcp.NewTool("theme_get",
		mcp.WithDescription("Show the current theme, its palette and whether it follows the calendar."),
	)
}

// Handle processes the theme_get tool call.
func (t *ThemeGetTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(describeTheme(t.sel.Current(), t.sel.AutoDetect())), nil
}

// ─── ThemeListTool ──────────────────────────────────────────────────────────

// ThemeListTool handles the theme_list MCP tool.
type ThemeListTool struct {
	sel *theme.Selector
}

// NewThemeListTool creates a ThemeListTool.
func NewThemeListTool(sel *theme.Selector) *ThemeListTool {
	return &ThemeListTool{sel: sel}
}

// Definition returns the MCP tool definition for theme_list.
func (t *ThemeListTool) Definition() mcp.Tool {
	return mcp.NewTool("theme_list",
		mcp.WithDescription("List every theme that can be pinned with theme_set."),
	)
}

// Handle processes the theme_list tool call.
func (t *ThemeListTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current := t.sel.Current().ID
	var sb strings.Builder
	for _, th := range theme.All() {
		marker := "  "
		if th.ID == current {
			marker = "▶ "
		}
		fmt.Fprintf(&sb, "%s%s %s (`%s`), %d colors\n", marker, th.Emoji, th.Name, th.ID, len(th.Palette))
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// ─── ThemeSetTool ───────────────────────────────────────────────────────────

// ThemeSetTool handles the theme_set MCP tool.
type ThemeSetTool struct {
	state themeState
}

// NewThemeSetTool creates a ThemeSetTool.
func NewThemeSetTool(sel *theme.Selector, store kv.Store) *ThemeSetTool {
	return &ThemeSetTool{state: themeState{sel: sel, store: store}}
}

// Definition returns the MCP tool definition for theme_set.
func (t *ThemeSetTool) Definition() mcp.Tool {
	ids := make([]string, 0, len(theme.All()))
	for _, th := range theme.All() {
		ids = append(ids, th.ID)
	}
	return mcp.NewTool("theme_set",
		mcp.WithDescription("Pin a theme. This switches off calendar auto-detection."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Theme id (see theme_list)"),
			mcp.Enum(ids...),
		),
	)
}

// Handle processes the theme_set tool call.
func (t *ThemeSetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := trimmedString(req, "id")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	if !t.state.sel.SetTheme(id) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown theme %q. Use theme_list to see available themes.", id)), nil
	}
	return t.state.result(ctx, describeTheme(t.state.sel.Current(), false)), nil
}

// ─── ThemeToggleAutoTool ────────────────────────────────────────────────────

// ThemeToggleAutoTool handles the theme_toggle_auto MCP tool.
type ThemeToggleAutoTool struct {
	state themeState
}

// NewThemeToggleAutoTool creates a ThemeToggleAutoTool.
func NewThemeToggleAutoTool(sel *theme.Selector, store kv.Store) *ThemeToggleAutoTool {
	return &ThemeToggleAutoTool{state: themeState{sel: sel, store: store}}
}

// Definition returns the MCP tool definition for theme_toggle_auto.
func (t *ThemeToggleAutoTool) Definition() mcp.Tool {
	return mcp.NewTool("theme_toggle_auto",
		mcp.WithDescription(
			"Toggle calendar auto-detection. Turning it on picks the seasonal theme for today; "+
				"turning it off keeps the current theme pinned.",
		),
	)
}

// Handle processes the theme_toggle_auto tool call.
func (t *ThemeToggleAutoTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	auto := t.state.sel.ToggleAutoDetect()
	return t.state.result(ctx, describeTheme(t.state.sel.Current(), auto)), nil
}

// ─── ThemeRefreshTool ───────────────────────────────────────────────────────

// ThemeRefreshTool handles the theme_refresh MCP tool.
type ThemeRefreshTool struct {
	state themeState
}

// NewThemeRefreshTool creates a ThemeRefreshTool.
func NewThemeRefreshTool(sel *theme.Selector, store kv.Store) *ThemeRefreshTool {
	return &ThemeRefreshTool{state: themeState{sel: sel, store: store}}
}

// Definition returns the MCP tool definition for theme_refresh.
func (t *ThemeRefreshTool) Definition() mcp.Tool {
	return mcp.NewTool("theme_refresh",
		mcp.WithDescription("Re-check today's date and switch to the seasonal theme if auto-detection is on."),
	)
}

// Handle processes the theme_refresh tool call.
func (t *ThemeRefreshTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.state.sel.AutoDetect() {
		return mcp.NewToolResultText("Auto-detection is off; the pinned theme stays. Use theme_toggle_auto to follow the calendar."), nil
	}
	if !t.state.sel.Refresh() {
		return mcp.NewToolResultText("Theme unchanged: " + t.state.sel.Current().Name), nil
	}
	return t.state.result(ctx, "Theme changed.\n\n"+describeTheme(t.state.sel.Current(), true)), nil
}
