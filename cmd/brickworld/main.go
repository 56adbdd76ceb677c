// brickworld: a block-building sandbox served over MCP
//
// A stdio MCP server that lets any AI host place, stack, save and render
// blocks on a shared baseplate. The same binary can inspect saved creations
// from the terminal.
//
// Usage:
//
//	brickworld serve                 # Start MCP server (stdio transport)
//	brickworld list                  # List saved creations
//	brickworld show <name>           # Draw a creation in the terminal
//	brickworld export <name> <png>   # Render a creation to a PNG file
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/brickworld/internal/config"
	"github.com/HendryAvila/brickworld/internal/logging"
	bwserver "github.com/HendryAvila/brickworld/internal/server"
)

var (
	// Global flags
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "brickworld",
	Short: "Block-building sandbox MCP server",
	Long: `brickworld exposes a block-building scene to AI hosts over the Model
Context Protocol. Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "brickworld": {
        "command": "brickworld",
        "args": ["serve"]
      }
    }
  }`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "brickworld v%s\n", bwserver.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := bwserver.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	logger.Info("serving over stdio",
		zap.String("version", bwserver.Version),
		zap.String("storage", cfg.Storage.Backend),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- server.ServeStdio(s) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	}
}
