package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"costwatch/core/catalog"
	"costwatch/core/metric"
	"costwatch/core/types"
	"costwatch/db/memory"
	"costwatch/providers"
)

var (
	evalRowsPath string
	evalNow      string
)

// evalFixture is the offline billing fixture format: a provider, an
// optional yearly tags budget, and raw billing rows.
type evalFixture struct {
	Provider         string              `json:"provider"`
	TagsYearlyBudget decimal.NullDecimal `json:"tags_yearly_budget"`
	Rows             []types.BillingRow  `json:"rows"`
}

// evaluateCmd evaluates one named metric against a local fixture file,
// bypassing the warehouse entirely. Useful for verifying dashboard
// numbers against a billing export.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <metric>",
	Short: "Evaluate a named metric against a billing row fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metricName := args[0]

		if evalRowsPath == "" {
			return fmt.Errorf("--rows is required")
		}
		data, err := os.ReadFile(evalRowsPath)
		if err != nil {
			return fmt.Errorf("reading fixture: %w", err)
		}
		var fixture evalFixture
		if err := json.Unmarshal(data, &fixture); err != nil {
			return fmt.Errorf("parsing fixture: %w", err)
		}
		if fixture.Provider == "" {
			fixture.Provider = string(types.ProviderAWS)
		}

		now := time.Now()
		if evalNow != "" {
			now, err = time.Parse(time.RFC3339, evalNow)
			if err != nil {
				return fmt.Errorf("parsing --now: %w", err)
			}
		}

		const namespace = "fixture"
		source := memory.NewSource()
		source.Load(namespace, fixture.Rows)

		directory := memory.NewTenantDirectory()
		directory.AddTenant(types.TenantContext{
			TenantID:         "local",
			Provider:         types.Provider(fixture.Provider),
			SchemaNamespace:  namespace,
			TagsYearlyBudget: fixture.TagsYearlyBudget,
		})

		registry := providers.Default()
		evaluator := metric.NewEvaluator(catalog.GetDefault(), registry, directory, directory, source)

		res, err := evaluator.Evaluate(context.Background(), metric.EvalRequest{
			TenantID: "local",
			Metric:   metricName,
			Now:      now,
		})
		if err != nil {
			return err
		}

		fmt.Printf("metric:       %s\n", res.Definition.Name)
		fmt.Printf("granularity:  %s\n", res.Definition.Granularity)
		fmt.Printf("window:       %s .. %s (day %d of %d)\n",
			res.Window.Start.Format("2006-01-02"),
			res.Window.End.Format("2006-01-02"),
			res.Window.ElapsedDays, res.Window.TotalDays)
		if res.Value.Valid {
			fmt.Printf("value:        %s\n", res.Value.Decimal)
		} else {
			fmt.Printf("value:        null (no signal)\n")
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalRowsPath, "rows", "", "path to a billing row fixture file (JSON)")
	evaluateCmd.Flags().StringVar(&evalNow, "now", "", "evaluation instant (RFC3339, default current time)")
}
