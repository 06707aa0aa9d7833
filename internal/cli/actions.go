package cli

import (
	"github.com/spf13/cobra"
)

func newActionsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the action chain",
		Long:  `List the configured actions in execution order. The start action is marked.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.Printer.Actions(app.Workflow.ActionNames(), app.Workflow.StartAction().String())
		},
	}
}
