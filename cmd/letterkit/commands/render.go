// ABOUTME: CLI command to render a finished letter
// ABOUTME: Fills a template with the sender profile and job details from flags
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/preview"
)

var (
	renderTemplateID string
	renderJob        models.JobDetails
	renderHTML       bool
)

// NewRenderCmd creates the render command
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a letter from a template",
		Long: `Render a finished letter from a template.

Profile variables come from the stored sender profile, job variables
from the flags. Without a file or --template the default template is used.

Examples:
  letterkit render --company "Muster GmbH" --position "Backend Engineer"
  letterkit render anschreiben.txt --company "Muster GmbH" --source LinkedIn
  letterkit render --template 3f2a... --contact "Sehr geehrte Frau Schmidt"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRender,
	}

	cmd.Flags().StringVar(&renderTemplateID, "template", "", "Stored template id")
	cmd.Flags().StringVar(&renderJob.Company, "company", "", "Company name (FIRMA)")
	cmd.Flags().StringVar(&renderJob.Position, "position", "", "Job title (POSITION)")
	cmd.Flags().StringVar(&renderJob.ContactPerson, "contact", "", "Salutation (ANSPRECHPARTNER)")
	cmd.Flags().StringVar(&renderJob.Source, "source", "", "Where the job was found (QUELLE)")
	cmd.Flags().StringVar(&renderJob.Introduction, "intro", "", "Opening paragraph (EINLEITUNG)")
	cmd.Flags().BoolVar(&renderHTML, "html", false, "Output HTML paragraphs")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var content string
	switch {
	case len(args) > 0:
		if content, err = readInput(cmd, args); err != nil {
			return err
		}
	case renderTemplateID != "":
		tmpl, err := store.GetTemplate(renderTemplateID)
		if err != nil {
			return fmt.Errorf("getting template: %w", err)
		}
		content = tmpl.Content
	default:
		tmpl, err := store.GetDefaultTemplate()
		if err != nil {
			return fmt.Errorf("getting default template: %w", err)
		}
		content = tmpl.Content
	}

	profile, err := store.GetSenderProfile()
	if err != nil {
		return fmt.Errorf("getting profile: %w", err)
	}
	if profile == nil {
		profile = &models.SenderProfile{}
	}

	parser := core.NewTemplateParser(nil, cfg.Variables())
	letter := core.Render(parser.Parse(content), core.BuildValues(*profile, renderJob, time.Now()))

	switch {
	case outputFormat == "json":
		return printJSON(cmd, map[string]any{"letter": letter})
	case renderHTML:
		fmt.Fprintln(cmd.OutOrStdout(), preview.Text(letter))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), letter)
	}
	return nil
}
