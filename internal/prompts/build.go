// Package prompts implements MCP prompt handlers for brickworld.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/brickworld/internal/catalog"
)

// BuildPrompt handles the brickworld-build MCP prompt.
// It guides the AI to assemble a described model block by block.
type BuildPrompt struct{}

// NewBuildPrompt creates a BuildPrompt.
func NewBuildPrompt() *BuildPrompt {
	return &BuildPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *BuildPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("brickworld-build",
		mcp.WithPromptDescription(
			"Build a model in brickworld from a short description. "+
				"The AI plans the layout, places the blocks and saves the result.",
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What to build, e.g. 'a small red house with a blue roof'"),
		),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Name to save the creation under. Default: derived from the description"),
		),
	)
}

// Handle processes the brickworld-build prompt request.
func (p *BuildPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	description := "something fun"
	name := ""
	if args := req.Params.Arguments; args != nil {
		if d := strings.TrimSpace(args["description"]); d != "" {
			description = d
		}
		name = strings.TrimSpace(args["name"])
	}

	saveStep := "6. Save it with `creation_save`, choosing a short descriptive name"
	if name != "" {
		saveStep = fmt.Sprintf("6. Save it with `creation_save` using the name %q", name)
	}

	var types strings.Builder
	for _, bt := range catalog.All() {
		fmt.Fprintf(&types, "- `%s`: %dx%d studs, %d plates tall\n", bt.ID, bt.Width, bt.Depth, bt.Height)
	}

	return &mcp.GetPromptResult{
		Description: "Build: " + description,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to build %s in brickworld.\n\n"+
						"Available block types:\n%s\n"+
						"Coordinates: x and z are studs on the ground grid, y is the height in plates "+
						"(a brick is %d plates, a plate is %d). Positions are the block's minimum corner.\n\n"+
						"Please:\n"+
						"1. Run `scene_view` and `theme_get` to see what is already there and which colors fit\n"+
						"2. Sketch the layout layer by layer before placing anything\n"+
						"3. Use `scene_select_block`, `scene_select_color` and `scene_rotate` to set up each block, "+
						"then `scene_place` to put it down\n"+
						"4. Use `scene_undo` if a placement goes wrong\n"+
						"5. Check the result with `scene_view` (format=grid)\n"+
						"%s",
					description, types.String(), catalog.BrickHeight, catalog.PlateHeight, saveStep,
				)),
			},
		},
	}, nil
}
