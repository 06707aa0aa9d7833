package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"storyflow/internal/action"
	"storyflow/internal/story"
	"storyflow/internal/workflow"
)

func newExecuteCommand(app *App) *cobra.Command {
	var (
		in     workflow.StoryInput
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Create a story and run the action chain",
		Long: `Create a story and run the action chain from the start action.

The chain stops when an action fails, when the pull request is opened
and awaits review, or when the last action of the chain succeeds.

Example:
  storyflow execute --name "Login page" --assignee ann`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := app.Workflow.Start(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printExecution(cmd, app, exec, asJSON)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "story name (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "story description")
	cmd.Flags().StringVar(&in.Assignee, "assignee", "", "user the story is assigned to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the execution as JSON")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// printExecution prints exec and turns a failed final step into exit code 1.
func printExecution(cmd *cobra.Command, app *App, exec *workflow.Execution, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(exec); err != nil {
			return err
		}
	} else {
		title := fmt.Sprintf("Story %s (%s)", exec.StoryKey, exec.Status)
		app.Printer.History(title, action.StepsJSON(exec.Steps))
	}

	if failed(exec.Steps) {
		return NewExitError(1)
	}
	return nil
}

func failed(steps []action.Step[*story.Story]) bool {
	return len(steps) > 0 && steps[len(steps)-1].Result.IsError()
}
