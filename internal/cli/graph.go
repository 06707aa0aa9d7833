package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storyflow/internal/graph"
)

func newGraphCommand(app *App) *cobra.Command {
	var (
		name    string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the action chain as a DOT graph",
		Long: `Print the configured action chain as a Graphviz DOT document.

Example:
  storyflow graph | dot -Tpng -o chain.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dot, err := graph.Render(app.Chain, name)
			if err != nil {
				return err
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(dot), 0644); err != nil {
					return fmt.Errorf("failed to write graph: %w", err)
				}
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), dot)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", graph.DefaultName, "graph name")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the graph to a file instead of stdout")
	return cmd
}
