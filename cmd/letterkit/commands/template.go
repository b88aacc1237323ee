// ABOUTME: CLI commands to manage stored templates
// ABOUTME: add, list, show, delete, default, export, and import
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/storage/sqlite"
	"github.com/harper/letterkit/internal/tui"
)

var (
	templateAddName    string
	templateAddDefault bool
	templateExportFmt  string
)

// NewTemplateCmd creates the template command group
func NewTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage stored templates",
		Long: `Manage stored cover letter templates.

The first template you add becomes the default. Rendering without
--template uses the default.`,
	}

	cmd.AddCommand(newTemplateAddCmd())
	cmd.AddCommand(newTemplateListCmd())
	cmd.AddCommand(newTemplateShowCmd())
	cmd.AddCommand(newTemplateDeleteCmd())
	cmd.AddCommand(newTemplateDefaultCmd())
	cmd.AddCommand(newTemplateExportCmd())
	cmd.AddCommand(newTemplateImportCmd())

	return cmd
}

// withStorage opens config and storage for the duration of fn
func withStorage(fn func(store *sqlite.Storage) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newTemplateAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Add a template from a file or stdin",
		Long: `Add a template from a file or stdin.

Examples:
  letterkit template add anschreiben.txt --name Standard
  cat anschreiben.txt | letterkit template add --name Standard --default`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			return withStorage(func(store *sqlite.Storage) error {
				tmpl, err := store.CreateTemplate(templateAddName, content)
				if err != nil {
					return fmt.Errorf("adding template: %w", err)
				}
				if templateAddDefault && !tmpl.IsDefault {
					if err := store.SetDefaultTemplate(tmpl.ID); err != nil {
						return fmt.Errorf("setting default: %w", err)
					}
					tmpl.IsDefault = true
				}

				if outputFormat == "json" {
					return printJSON(cmd, tmpl)
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Added template %q (%s)\n", tmpl.Name, tmpl.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&templateAddName, "name", "", "Template name (required)")
	cmd.Flags().BoolVar(&templateAddDefault, "default", false, "Make this the default template")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTemplateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			templates, err := store.ListTemplates()
			if err != nil {
				return fmt.Errorf("listing templates: %w", err)
			}

			if len(templates) == 0 {
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "No templates found. Add one with: letterkit template add FILE --name NAME\n")
				}
				return nil
			}

			if outputFormat == "json" {
				return printJSON(cmd, templates)
			}

			known := cfg.Variables()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tDEFAULT\tVARIABLES\tUPDATED\tID\n")
			fmt.Fprintf(w, "----\t-------\t---------\t-------\t--\n")
			for i := range templates {
				t := &templates[i]
				def := ""
				if t.IsDefault {
					def = "*"
				}
				vars := make([]string, 0)
				for _, v := range t.Variables(known) {
					vars = append(vars, string(v))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					truncate(t.Name, 30),
					def,
					truncate(strings.Join(vars, ","), 40),
					formatTime(t.UpdatedAt),
					t.ID)
			}
			_ = w.Flush()

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d template(s)\n", len(templates))
			}
			return nil
		},
	}
}

func newTemplateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a template (the default when no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			tmpl, err := store.GetDefaultTemplate()
			if len(args) > 0 {
				tmpl, err = store.GetTemplate(args[0])
			}
			if err != nil {
				return fmt.Errorf("getting template: %w", err)
			}

			switch outputFormat {
			case "json":
				return printJSON(cmd, tmpl)
			case "text":
				fmt.Fprintln(cmd.OutOrStdout(), tmpl.Content)
			default:
				parser := core.NewTemplateParser(nil, cfg.Variables())
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n\n", tmpl.Name, tmpl.ID)
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSegments(parser.Parse(tmpl.Content), ""))
			}
			return nil
		},
	}
}

func newTemplateDeleteCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(store *sqlite.Storage) error {
				if err := store.DeleteTemplate(args[0]); err != nil {
					return fmt.Errorf("deleting template: %w", err)
				}
				if remote {
					if err := deleteRemoteTemplate(args[0]); err != nil {
						return err
					}
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", args[0])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also delete the copy stored in Charm")
	return cmd
}

func deleteRemoteTemplate(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := openCharm(cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.DeleteTemplate(id)
}

func newTemplateDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <id>",
		Short: "Make a template the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(store *sqlite.Storage) error {
				if err := store.SetDefaultTemplate(args[0]); err != nil {
					return fmt.Errorf("setting default: %w", err)
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Default template is now %s\n", args[0])
				}
				return nil
			})
		},
	}
}

func newTemplateExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export templates and profile to YAML or Markdown",
		Long: `Export all templates and the sender profile.

YAML exports can be imported again; Markdown is for reading.

Examples:
  letterkit template export backup.yaml
  letterkit template export vorlagen.md --as markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(store *sqlite.Storage) error {
				var err error
				switch templateExportFmt {
				case "yaml":
					err = store.ExportToYAML(args[0])
				case "markdown", "md":
					err = store.ExportToMarkdown(args[0])
				default:
					return fmt.Errorf("--as must be yaml or markdown, got %q", templateExportFmt)
				}
				if err != nil {
					return fmt.Errorf("exporting: %w", err)
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&templateExportFmt, "as", "yaml", "Export format: yaml, markdown")

	return cmd
}

func newTemplateImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import templates and profile from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(store *sqlite.Storage) error {
				result, err := store.ImportYAML(args[0])
				if err != nil {
					return fmt.Errorf("importing: %w", err)
				}
				if outputFormat == "json" {
					return printJSON(cmd, result)
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d template(s)", result.Templates)
					if result.Profile {
						fmt.Fprint(cmd.OutOrStdout(), " and the sender profile")
					}
					fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	}
}
