// ABOUTME: CLI command to parse a template into segments
// ABOUTME: Prints chips, a segment table, or JSON for a template file or stdin
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/tui"
)

// NewParseCmd creates the parse command
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a template into text and variable segments",
		Long: `Parse a template into text and variable segments.

Known {{VARIABLE}} placeholders become variable segments; unknown names
stay literal text. Reads stdin when no file is given.

Examples:
  letterkit parse anschreiben.txt
  cat anschreiben.txt | letterkit parse --format json
  letterkit parse anschreiben.txt --format text`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	content, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	parser := core.NewTemplateParser(nil, cfg.Variables())
	segments := parser.Parse(content)

	switch outputFormat {
	case "json":
		return printJSON(cmd, map[string]any{
			"segments": segments,
		})
	case "text":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "#\tTYPE\tCONTENT\n")
		fmt.Fprintf(w, "-\t----\t-------\n")
		for i, seg := range segments {
			shown := seg.Content
			if seg.IsVariable() {
				shown = string(seg.VariableType)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", i, seg.Type, truncate(strings.ReplaceAll(shown, "\n", `\n`), 60))
		}
		_ = w.Flush()
	default:
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSegments(segments, ""))
	}

	if !quiet && outputFormat != "json" {
		vars := 0
		for _, seg := range segments {
			if seg.IsVariable() {
				vars++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d segment(s), %d variable(s)\n", len(segments), vars)
	}
	return nil
}
