package cli

import (
	"github.com/spf13/cobra"

	"storyflow/internal/action"
)

func newResumeCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resume <story-key> <action>",
		Short: "Continue a story's chain after an action",
		Long: `Continue the action chain of a stored story with the successor of the
given action. Resuming after the last action of the chain runs nothing
and reports that action as successful.

Example:
  storyflow resume 4f1c0a52-7d3e-4b8e-a0d5-3f3c2c1b9e11 ASSIGN_STORY`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := app.Workflow.Resume(cmd.Context(), args[0], action.Name(args[1]))
			if err != nil {
				return err
			}
			return printExecution(cmd, app, exec, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the execution as JSON")
	return cmd
}
