// ABOUTME: CLI command to turn letter spans into variables
// ABOUTME: Suggestions come from a JSON file or the language model, then get reviewed or accepted
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/tui"
)

var (
	suggestFile        string
	suggestAcceptAll   bool
	suggestInteractive bool
	suggestSaveName    string
)

// NewSuggestCmd creates the suggest command
func NewSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Suggest which parts of a letter should become variables",
		Long: `Suggest which parts of a letter should become variables.

Suggestions are read from a JSON file with --suggestions, or requested
from the language model when OPENAI_API_KEY is set. Review them in the
terminal with --interactive, or accept all with --accept-all. Without
either, pending suggestions are listed and the text is left unchanged.

Examples:
  letterkit suggest brief.txt --interactive
  letterkit suggest brief.txt --suggestions vorschlaege.json --accept-all
  letterkit suggest brief.txt --accept-all --save "Standard"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSuggest,
	}

	cmd.Flags().StringVar(&suggestFile, "suggestions", "", "JSON file with a suggestion array")
	cmd.Flags().BoolVar(&suggestAcceptAll, "accept-all", false, "Accept every suggestion")
	cmd.Flags().BoolVarP(&suggestInteractive, "interactive", "i", false, "Review suggestions in the terminal")
	cmd.Flags().StringVar(&suggestSaveName, "save", "", "Save the result as a template with this name")
	cmd.MarkFlagsMutuallyExclusive("accept-all", "interactive")

	return cmd
}

func loadSuggestionFile(path string) ([]models.Suggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suggestions: %w", err)
	}
	var suggestions []models.Suggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, fmt.Errorf("parsing suggestions: %w", err)
	}
	return suggestions, nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	content, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	content = core.TruncateTemplate(content)

	var suggestions []models.Suggestion
	if suggestFile != "" {
		if suggestions, err = loadSuggestionFile(suggestFile); err != nil {
			return err
		}
	} else {
		client, err := newOpenAIClient(cfg)
		if err != nil {
			return fmt.Errorf("initializing OpenAI client: %w", err)
		}
		if client == nil {
			return fmt.Errorf("OPENAI_API_KEY is not set; pass --suggestions with a JSON file instead")
		}
		if !quiet {
			log.Println("Asking the model for suggestions...")
		}
		if suggestions, err = client.SuggestVariables(context.Background(), content); err != nil {
			return fmt.Errorf("suggestion request failed: %w", err)
		}
	}

	parser := core.NewTemplateParser(nil, cfg.Variables())
	segments := parser.ApplySuggestions(parser.Parse(content), suggestions)

	switch {
	case suggestAcceptAll:
		segments = core.AcceptAllSuggestions(segments)
	case suggestInteractive && core.HasSuggestions(segments):
		if segments, err = tui.Review(segments); err != nil {
			return fmt.Errorf("review failed: %w", err)
		}
	}

	result := core.Serialize(segments)
	pending := core.PendingSuggestions(segments)

	if suggestSaveName != "" {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		tmpl, err := store.CreateTemplate(suggestSaveName, result)
		if err != nil {
			return fmt.Errorf("saving template: %w", err)
		}
		if !quiet {
			log.Printf("Saved template %q (%s)", tmpl.Name, tmpl.ID)
		}
	}

	if outputFormat == "json" {
		return printJSON(cmd, map[string]any{
			"content":  result,
			"segments": segments,
			"pending":  pending,
		})
	}

	if len(pending) > 0 && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSegments(segments, ""))
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d pending suggestion(s):\n", len(pending))
		for _, seg := range pending {
			fmt.Fprintf(cmd.OutOrStdout(), "  %q -> %s  %s\n", seg.Content, seg.SuggestedVariable, seg.Reason)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
