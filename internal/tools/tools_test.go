package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/brickworld/internal/creations"
	"github.com/HendryAvila/brickworld/internal/kv"
	"github.com/HendryAvila/brickworld/internal/scene"
)

// --- Test helpers ---

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// handler is the signature shared by every tool's Handle method.
type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// mustSucceed calls h and fails the test on a Go error or a tool error.
func mustSucceed(t *testing.T, h handler, args map[string]interface{}) string {
	t.Helper()
	r, err := h(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if isErrorResult(r) {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
	return resultText(r)
}

// mustFail calls h and fails the test unless it returned a tool error.
func mustFail(t *testing.T, h handler, args map[string]interface{}) string {
	t.Helper()
	r, err := h(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("handlers should not return Go errors, got: %v", err)
	}
	if !isErrorResult(r) {
		t.Fatalf("expected tool error, got: %s", resultText(r))
	}
	return resultText(r)
}

// newTestScene returns a scene with deterministic ids b1, b2, ...
func newTestScene(t *testing.T) *scene.Store {
	t.Helper()
	n := 0
	return scene.New(scene.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("b%d", n)
	}))
}

func newTestAdapter(t *testing.T, sc *scene.Store) (*creations.Adapter, kv.Store) {
	t.Helper()
	store := kv.NewMemory()
	return creations.NewAdapter(store, sc), store
}

// hasProp reports whether a tool schema declares the property.
func hasProp(def mcp.Tool, name string) bool {
	_, ok := def.InputSchema.Properties[name]
	return ok
}

// isRequired reports whether a tool schema marks the property as required.
func isRequired(def mcp.Tool, name string) bool {
	for _, r := range def.InputSchema.Required {
		if r == name {
			return true
		}
	}
	return false
}
