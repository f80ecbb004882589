package task

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/listboard/internal/cli"
	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/tui"
)

const descriptionWidth = 72

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task>",
		Short: "Show a task with its description and comments",
		Long: `Show a task, its rendered markdown description and its comments.

Examples:
  listboard task show $TASK_ID
  listboard task show $TASK_ID --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

// taskDetail is a task with its comments
type taskDetail struct {
	Task     models.Task      `json:"task"`
	Comments []models.Comment `json:"comments"`
}

func (d taskDetail) GetID() string { return d.Task.GetID() }

func runShow(cmd *cobra.Command, args []string) error {
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

	task, err := cli.ResolveTask(b, args[0])
	if err != nil {
		return cli.Fail(formatter, err)
	}

	detail := taskDetail{Task: task, Comments: b.Comments(task.ID)}
	if detail.Comments == nil {
		detail.Comments = []models.Comment{}
	}

	st := tui.NewStyles(cliInstance.App.Config.Theme)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", st.ColumnTitle.Render(task.Content))
	fmt.Fprintf(&sb, "ID:     %s\n", task.ID)
	fmt.Fprintf(&sb, "Column: %s (position %d)\n\n", cli.ColumnTitle(b, task.ColumnID), task.Order+1)
	fmt.Fprintf(&sb, "%s\n\n", tui.RenderDescription(st, task.Description, descriptionWidth))

	fmt.Fprintf(&sb, "Comments (%d):\n", len(detail.Comments))
	for _, c := range detail.Comments {
		fmt.Fprintf(&sb, "  [%s] %s  (%s)\n", c.CreatedAt.Local().Format("2006-01-02 15:04"), c.Text, c.ID)
	}

	return formatter.Success(detail, strings.TrimRight(sb.String(), "\n"))
}
