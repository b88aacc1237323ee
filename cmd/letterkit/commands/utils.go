// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Config and storage setup, input reading, and output formatting
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/harper/letterkit/internal/charm"
	"github.com/harper/letterkit/internal/config"
	"github.com/harper/letterkit/internal/llm"
	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/storage/sqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// loadConfig reads .env and the environment, then applies the --db flag
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openStorage opens the configured database
func openStorage(cfg *config.Config) (*sqlite.Storage, error) {
	var (
		store *sqlite.Storage
		err   error
	)
	if cfg.DBPath != "" {
		store, err = sqlite.NewStorageWithPath(cfg.DBPath)
	} else {
		store, err = sqlite.NewStorage()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	if verbose {
		log.Printf("Using database %s", store.Path())
	}
	return store, nil
}

// newOpenAIClient builds the OpenAI client, or returns nil when no key is configured
func newOpenAIClient(cfg *config.Config) (*llm.OpenAIClient, error) {
	if !cfg.HasOpenAI() {
		return nil, nil
	}
	return llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:     cfg.OpenAIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		ChatModel:  cfg.ChatModel,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Variables:  cfg.Variables(),
	})
}

// openCharm connects to Charm KV using the configured host and database
func openCharm(cfg *config.Config) (*charm.Client, error) {
	client, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}

// charmPushHook returns a save hook that mirrors saved templates to Charm.
// Failures are logged; local saves never depend on the cloud.
func charmPushHook(client *charm.Client) func(*models.Template) {
	return func(t *models.Template) {
		if err := client.PutTemplate(t); err != nil {
			log.Printf("Warning: failed to push template %s to Charm: %v", t.ID, err)
		}
	}
}

// readInput reads a file argument, or stdin when the argument is "-" or absent
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

// printJSON writes v as indented JSON
func printJSON(cmd *cobra.Command, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	return nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display relative to now
func formatTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// orNotSet renders empty profile fields
func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
