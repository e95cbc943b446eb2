package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kpushkaryov/evader/pkg/scenario"

	// Import scenarios to register them
	_ "github.com/kpushkaryov/evader/scenarios"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scenarios",
	Long:  `List all registered engagement scenarios`,
	RunE:  listScenarios,
}

func listScenarios(_ *cobra.Command, _ []string) error {
	names := scenario.DefaultRegistry.List()
	if len(names) == 0 {
		fmt.Println("No scenarios registered")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	fmt.Fprintln(w, "----\t-----------")

	for _, name := range names {
		scn, err := scenario.DefaultRegistry.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", scn.Name(), scn.Description())
	}

	return w.Flush()
}
