package cli

import (
	"github.com/spf13/cobra"
)

func newReviewCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "review <story-key> <ACCEPTED|REJECTED|CHANGES_REQUIRED>",
		Short: "Apply a pull request review to a story",
		Long: `Apply a pull request review decision to a story waiting in PULL_REQUEST.

  ACCEPTED          completes the story
  CHANGES_REQUIRED  implements the story again and reopens the pull request
  REJECTED          closes the story without running further actions

Example:
  storyflow review 4f1c0a52-7d3e-4b8e-a0d5-3f3c2c1b9e11 ACCEPTED`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := app.Workflow.Review(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printExecution(cmd, app, exec, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the execution as JSON")
	return cmd
}
