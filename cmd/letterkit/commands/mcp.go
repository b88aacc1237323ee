// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Lets LLM agents parse, suggest, render and store templates via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/config"
	"github.com/harper/letterkit/internal/llm"
	"github.com/harper/letterkit/internal/mcp"
	"github.com/harper/letterkit/internal/models"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs letterkit as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to parse templates, apply variable suggestions,
render letters and manage stored templates via stdio.

Configure in Claude Desktop's config file to enable the tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  letterkit mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "letterkit": {
  #       "command": "letterkit",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// suggesterFor returns the OpenAI client as a Suggester, or nil without a key.
// A nil *OpenAIClient must not become a non-nil interface.
func suggesterFor(cfg *config.Config) llm.Suggester {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		return nil
	}
	if client == nil {
		log.Println("Warning: OPENAI_API_KEY not set - suggestion features will not work")
		return nil
	}
	return client
}

// saveHookFor connects to Charm when auto sync is on and returns a push hook.
// The returned closer is always safe to call.
func saveHookFor(cfg *config.Config) (func(*models.Template), func()) {
	if !cfg.AutoSync {
		return nil, func() {}
	}
	client, err := openCharm(cfg)
	if err != nil {
		log.Printf("Warning: Charm sync disabled: %v", err)
		return nil, func() {}
	}
	return charmPushHook(client), func() { _ = client.Close() }
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"letterkit",
		versionInfo.Version,
		mcpserver.WithToolCapabilities(true),
	)

	handlers := mcp.RegisterTools(server, store, cfg.Variables(), suggesterFor(cfg))

	hook, closeCharm := saveHookFor(cfg)
	defer closeCharm()
	if hook != nil {
		handlers.OnTemplateSaved(hook)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("letterkit MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
	case err = <-serverErr:
		if err != nil {
			err = fmt.Errorf("server error: %w", err)
		}
	}

	// Let pending Charm pushes finish before the store closes
	handlers.Shutdown()
	if cerr := store.Close(); cerr != nil {
		log.Printf("Warning: Error closing storage: %v", cerr)
	}
	return err
}

