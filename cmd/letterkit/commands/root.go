// ABOUTME: Root command and global flags for the letterkit CLI
// ABOUTME: Registers every subcommand and validates the shared output options
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	dbPath       string
)

const banner = `
██╗     ███████╗████████╗████████╗███████╗██████╗ ██╗  ██╗██╗████████╗
██║     ██╔════╝╚══██╔══╝╚══██╔══╝██╔════╝██╔══██╗██║ ██╔╝██║╚══██╔══╝
██║     █████╗     ██║      ██║   █████╗  ██████╔╝█████╔╝ ██║   ██║
██║     ██╔══╝     ██║      ██║   ██╔══╝  ██╔══██╗██╔═██╗ ██║   ██║
███████╗███████╗   ██║      ██║   ███████╗██║  ██║██║  ██╗██║   ██║
╚══════╝╚══════╝   ╚═╝      ╚═╝   ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝   ╚═╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "letterkit",
		Short: "Cover letter templates with {{VARIABLE}} placeholders",
		Long: banner + `

Letterkit keeps cover letter templates with {{VARIABLE}} placeholders,
proposes which parts of a letter should become variables, and renders
finished letters from your sender profile and the job details.

Templates live in a local SQLite database and can sync through Charm.
The same operations are available to LLM agents over MCP and to the
browser editor over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "text", "json":
				return nil
			default:
				return fmt.Errorf("--format must be auto, text or json, got %q", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, json")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: XDG data dir)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewParseCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewSuggestCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewTemplateCmd())
	cmd.AddCommand(NewProfileCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewServeCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
