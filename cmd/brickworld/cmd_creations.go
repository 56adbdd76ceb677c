package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/brickworld/internal/config"
	"github.com/HendryAvila/brickworld/internal/creations"
	"github.com/HendryAvila/brickworld/internal/kv"
	"github.com/HendryAvila/brickworld/internal/render"
	"github.com/HendryAvila/brickworld/internal/scene"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved creations",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Draw a saved creation in the terminal",
	Long: `Draw a saved creation top-down in the terminal, one colored cell per stud.

The name is matched the same way the MCP tools match it: case-insensitive,
with runs of whitespace treated as a single underscore.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var exportCmd = &cobra.Command{
	Use:   "export <name> <out.png>",
	Short: "Render a saved creation to a PNG file",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

// openCreations loads the config and opens the storage backend read by the
// MCP server. The caller must call the returned close function.
func openCreations(ctx context.Context) (*creations.Adapter, *config.Config, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := kv.Open(ctx, cfg.KVOptions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	return creations.NewAdapter(store, scene.New()), cfg, store.Close, nil
}

// peekCreation returns the blocks of a saved creation or a user-facing error.
func peekCreation(ctx context.Context, a *creations.Adapter, name string) (*creations.Creation, error) {
	res, err := a.Peek(ctx, name)
	if err != nil {
		return nil, err
	}
	switch res.Status {
	case creations.StatusNotFound:
		return nil, fmt.Errorf("no creation named %q (key %s)", name, res.Key)
	case creations.StatusParseError:
		return nil, fmt.Errorf("creation %q could not be read: %s", name, res.Reason)
	}
	return res.Creation, nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, _, closeStore, err := openCreations(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	summaries, err := a.Summaries(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No saved creations.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBLOCKS\tSAVED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, s.BlockCount, s.SavedAt)
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, _, closeStore, err := openCreations(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := peekCreation(ctx, a, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d blocks, saved %s)\n\n", c.Name, len(c.Blocks), c.SavedAt)
	if len(c.Blocks) == 0 {
		fmt.Fprintln(out, "(empty)")
		return nil
	}
	drawing, err := render.Terminal(c.Blocks)
	if err != nil {
		return fmt.Errorf("drawing %q: %w", c.Name, err)
	}
	fmt.Fprintln(out, drawing)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, cfg, closeStore, err := openCreations(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := peekCreation(ctx, a, args[0])
	if err != nil {
		return err
	}

	path := args[1]
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}
	opts := render.PNGOptions{CellSize: cfg.Export.CellSize, Padding: cfg.Export.Padding}
	if err := render.SavePNG(path, c.Blocks, opts); err != nil {
		return fmt.Errorf("exporting %q: %w", c.Name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %q (%d blocks) to %s\n", c.Name, len(c.Blocks), path)
	return nil
}
