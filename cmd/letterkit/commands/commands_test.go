// ABOUTME: Tests for subcommand structure
// ABOUTME: Verifies descriptions, RunE wiring, flags, and nested subcommands

package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func findSub(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

func TestCommands_HaveDescriptionsAndRunE(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
	}{
		{"parse", NewParseCmd()},
		{"render", NewRenderCmd()},
		{"suggest", NewSuggestCmd()},
		{"generate", NewGenerateCmd()},
		{"profile", NewProfileCmd()},
		{"mcp", NewMCPCmd()},
		{"serve", NewServeCmd()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", tt.cmd.Name(), tt.name)
			}
			if tt.cmd.Short == "" {
				t.Error("Short description should not be empty")
			}
			if tt.cmd.Long == "" {
				t.Error("Long description should not be empty")
			}
			if tt.cmd.RunE == nil {
				t.Error("RunE should be set")
			}
		})
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{NewRenderCmd(), []string{"template", "company", "position", "contact", "source", "intro", "html"}},
		{NewSuggestCmd(), []string{"suggestions", "accept-all", "interactive", "save"}},
		{NewGenerateCmd(), []string{"sector", "projects", "passions", "hobbies", "tone", "cv", "save", "default"}},
		{NewServeCmd(), []string{"addr"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			for _, name := range tt.flags {
				if tt.cmd.Flags().Lookup(name) == nil {
					t.Errorf("--%s flag not found", name)
				}
			}
		})
	}
}

func TestMCPCmd_Description(t *testing.T) {
	cmd := NewMCPCmd()

	for _, want := range []string{"MCP", "LLM", "stdio"} {
		if !strings.Contains(cmd.Long, want) {
			t.Errorf("Long description should mention %s", want)
		}
	}
	if !strings.Contains(cmd.Example, "letterkit mcp") {
		t.Error("Example should show how to run the command")
	}
	if !strings.Contains(cmd.Example, "claude_desktop_config") {
		t.Error("Example should mention Claude Desktop config")
	}
}

func TestGroupSubcommands(t *testing.T) {
	tests := []struct {
		group *cobra.Command
		subs  []string
	}{
		{NewTemplateCmd(), []string{"add", "list", "show", "delete", "default", "export", "import"}},
		{NewSyncCmd(), []string{"status", "push", "pull", "now"}},
		{NewProfileCmd(), []string{"set"}},
	}

	for _, tt := range tests {
		for _, name := range tt.subs {
			t.Run(tt.group.Name()+"/"+name, func(t *testing.T) {
				sub := findSub(tt.group, name)
				if sub == nil {
					t.Fatalf("subcommand %q not found", name)
				}
				if sub.Short == "" {
					t.Error("Short description should not be empty")
				}
				if sub.RunE == nil {
					t.Error("RunE should be set")
				}
			})
		}
	}
}

func TestProfileSetFlags(t *testing.T) {
	set := findSub(NewProfileCmd(), "set")
	if set == nil {
		t.Fatal("set subcommand not found")
	}

	for _, name := range []string{"full-name", "email", "phone", "address", "postal-code", "city", "website"} {
		if set.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found", name)
		}
	}
}

func TestSuggestCmd_AcceptAllAndInteractiveExclusive(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"suggest", "--accept-all", "--interactive", "--suggestions", "x.json"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for --accept-all with --interactive")
	}
}
