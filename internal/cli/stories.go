package cli

import (
	"github.com/spf13/cobra"
)

func newStoriesCommand(app *App) *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "stories [story-key]",
		Short: "List stored stories or show one",
		Long: `List the stored stories, oldest first, or show a single story.

--where takes a boolean expression over the fields key, name, description,
assignee, status, reviewStatus, createdAt and updatedAt.

Examples:
  storyflow stories
  storyflow stories --where 'status == "PULL_REQUEST" && assignee == "ann"'
  storyflow stories 4f1c0a52-7d3e-4b8e-a0d5-3f3c2c1b9e11`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				st, err := app.Store.Get(args[0])
				if err != nil {
					return err
				}
				app.Printer.Story(st)
				return nil
			}

			stories, err := app.Store.Filter(where)
			if err != nil {
				return err
			}
			app.Printer.Stories(stories)
			return nil
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "filter expression")
	return cmd
}
