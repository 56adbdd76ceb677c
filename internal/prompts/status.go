package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the brickworld-status MCP prompt.
// It instructs the AI to read and present the current scene state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("brickworld-status",
		mcp.WithPromptDescription(
			"Check what is on the brickworld baseplate. "+
				"Shows the blocks, the current selection, the theme and saved creations.",
		),
	)
}

// Handle processes the brickworld-status prompt request.
func (p *StatusPrompt) Handle(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "brickworld Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `scene_view`, `theme_get` and `creation_list` to check my brickworld session.\n\n" +
						"Then:\n" +
						"1. Summarize what is built right now and how many undo steps are left\n" +
						"2. Show the selected block type, color, rotation and whether delete mode is on\n" +
						"3. Mention the active theme and whether it follows the calendar\n" +
						"4. List my saved creations and suggest what I could do next",
				),
			},
		},
	}, nil
}
