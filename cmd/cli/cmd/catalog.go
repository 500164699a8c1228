package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"costwatch/core/catalog"
	"costwatch/core/types"
)

var (
	catalogProvider string
	catalogFormat   string
)

// catalogCmd lists the generated metric catalog
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the generated metric catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.GetDefault()

		defs := cat.All()
		if catalogProvider != "" {
			filtered := defs[:0]
			for _, def := range defs {
				if def.Provider == types.Provider(catalogProvider) {
					filtered = append(filtered, def)
				}
			}
			defs = filtered
			if len(defs) == 0 {
				return fmt.Errorf("no metrics for provider %q", catalogProvider)
			}
		}

		if catalogFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(defs)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPROVIDER\tGRANULARITY\tSHAPE\tSERVICE")
		for _, def := range defs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				def.Name, def.Provider, def.Granularity, def.Shape, def.ServiceFilter)
		}
		return w.Flush()
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogProvider, "provider", "", "filter by provider (aws, azure, gcp)")
	catalogCmd.Flags().StringVar(&catalogFormat, "format", "table", "output format (table, json)")
}
