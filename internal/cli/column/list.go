package column

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/models"
)

// ListCmd returns the column list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the board's columns in order",
		Long: `List every column left to right with its task count.

Examples:
  listboard column list
  listboard column list --json
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

// columnSummary is a column with its task count
type columnSummary struct {
	models.Column
	Tasks int `json:"tasks"`
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.Formatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	b, err := cliInstance.Board(ctx)
	if err != nil {
		return cli.Fail(formatter, err)
	}

	columns := b.Columns()
	summaries := make([]columnSummary, 0, len(columns))
	for _, col := range columns {
		summaries = append(summaries, columnSummary{Column: col, Tasks: len(b.Tasks(col.ID))})
	}

	// Quiet mode prints one ID per line
	if formatter.Quiet {
		for _, s := range summaries {
			fmt.Println(s.ID)
		}
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Columns (%d):\n", len(summaries))
	for _, s := range summaries {
		marker := ""
		if s.IsDefault {
			marker = " [default]"
		}
		fmt.Fprintf(&sb, "  %d. %s (%d tasks)%s  [%s]\n", s.Order+1, s.Title, s.Tasks, marker, s.ID)
	}
	return formatter.Success(summaries, strings.TrimRight(sb.String(), "\n"))
}
