// ABOUTME: CLI command to generate a new template with the language model
// ABOUTME: Builds the prompt from applicant details and optionally saves the result
package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/llm"
)

var (
	generateReq      llm.GenerateRequest
	generateCVFile   string
	generateSaveName string
	generateDefault  bool
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a template with the language model",
		Long: `Generate a cover letter template with the language model.

The model writes a German letter with {{VARIABLE}} placeholders based on
your sector, projects and passions. Spans it marks for review are
replaced with their placeholders. Requires OPENAI_API_KEY.

Examples:
  letterkit generate --sector Softwareentwicklung --projects "..." --passions "..."
  letterkit generate --sector IT --projects "..." --passions "..." --tone formal --cv lebenslauf.txt
  letterkit generate --sector IT --projects "..." --passions "..." --save "KI-Vorlage" --default`,
		RunE: runGenerate,
	}

	cmd.Flags().StringVar(&generateReq.Sector, "sector", "", "Industry or field (required)")
	cmd.Flags().StringVar(&generateReq.Projects, "projects", "", "Notable projects (required)")
	cmd.Flags().StringVar(&generateReq.Passions, "passions", "", "What motivates you (required)")
	cmd.Flags().StringVar(&generateReq.Hobbies, "hobbies", "", "Hobbies")
	cmd.Flags().StringVar(&generateReq.Tone, "tone", llm.ToneModern, "Tone: formal, modern, kreativ")
	cmd.Flags().StringVar(&generateCVFile, "cv", "", "Text file with your CV")
	cmd.Flags().StringVar(&generateSaveName, "save", "", "Save the result as a template with this name")
	cmd.Flags().BoolVar(&generateDefault, "default", false, "Make the saved template the default")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := generateReq
	if generateCVFile != "" {
		data, err := os.ReadFile(generateCVFile)
		if err != nil {
			return fmt.Errorf("reading CV: %w", err)
		}
		req.CV = string(data)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	client, err := newOpenAIClient(cfg)
	if err != nil {
		return fmt.Errorf("initializing OpenAI client: %w", err)
	}
	if client == nil {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	if !quiet {
		log.Println("Generating template...")
	}
	content, spans, err := client.GenerateTemplate(context.Background(), req)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	content, replaced := core.ReplaceSpans(content, spans, cfg.Variables())
	if verbose {
		log.Printf("Replaced %d of %d marked span(s)", replaced, len(spans))
	}

	if generateSaveName != "" {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		tmpl, err := store.CreateTemplate(generateSaveName, content)
		if err != nil {
			return fmt.Errorf("saving template: %w", err)
		}
		if generateDefault && !tmpl.IsDefault {
			if err := store.SetDefaultTemplate(tmpl.ID); err != nil {
				return fmt.Errorf("setting default: %w", err)
			}
		}
		if !quiet {
			log.Printf("Saved template %q (%s)", tmpl.Name, tmpl.ID)
		}
	}

	if outputFormat == "json" {
		return printJSON(cmd, map[string]any{
			"content":  content,
			"replaced": replaced,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), content)
	return nil
}
