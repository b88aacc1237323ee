// ABOUTME: Main entry point for the letterkit MCP server with stdio transport
// ABOUTME: Initializes storage, the optional OpenAI client, and registers all tools
package main

import (
	"log"

	"github.com/harper/letterkit/internal/config"
	"github.com/harper/letterkit/internal/llm"
	"github.com/harper/letterkit/internal/mcp"
	"github.com/harper/letterkit/internal/storage/sqlite"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var store *sqlite.Storage
	if cfg.DBPath != "" {
		store, err = sqlite.NewStorageWithPath(cfg.DBPath)
	} else {
		store, err = sqlite.NewStorage()
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	var suggester llm.Suggester
	if cfg.HasOpenAI() {
		client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			ChatModel:  cfg.ChatModel,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Variables:  cfg.Variables(),
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			suggester = client
		}
	} else {
		log.Println("Warning: OPENAI_API_KEY not set - suggest_variables will not work")
	}

	server := mcpserver.NewMCPServer(
		"letterkit",
		"0.1.0",
		mcpserver.WithToolCapabilities(true),
	)

	handlers := mcp.RegisterTools(server, store, cfg.Variables(), suggester)
	defer handlers.Shutdown()

	log.Println("letterkit MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Printf("Server error: %v", err)
	}
}
