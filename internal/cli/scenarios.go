/*
PURPOSE:
  Defines the 'list-scenarios' subcommand.
  Helps debug scenario files and weight mixes before a run.

REQUIREMENTS:
  User-specified:
  - List the active scenario set with resolved selection probabilities.

IMPLEMENTATION RULES:
  - Simple output to stdout.

RELATED FILES:
  - internal/scenario/scenario.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillreader/streambench/internal/scenario"
)

var listScenariosCmd = &cobra.Command{
	Use:   "list-scenarios",
	Short: "List the active scenario set and selection probabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		scenarios := scenario.Defaults()
		source := "builtin"
		if scenariosFlag != "" {
			loaded, err := scenario.Load(scenariosFlag)
			if err != nil {
				return err
			}
			scenarios = loaded
			source = scenariosFlag
		}

		total := scenario.TotalWeight(scenarios)
		fmt.Printf("Scenarios (%s):\n", source)
		for _, sc := range scenarios {
			pct := 0.0
			if total > 0 {
				pct = sc.Weight / total * 100
			}
			fmt.Printf("- %-24s intent=%-10s weight=%.2f (%.1f%%)\n", sc.Name, sc.Intent, sc.Weight, pct)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listScenariosCmd)
	listScenariosCmd.Flags().StringVar(&scenariosFlag, "scenarios", "", "Path to a JSON scenario file")
}
