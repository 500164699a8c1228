// Package providers - GCP cost schema
package providers

import "costwatch/core/types"

// gcpSchema maps GCP billing export columns onto the core. Like AWS,
// GCP meters against the list price.
func gcpSchema() Schema {
	return Schema{
		Provider:           types.ProviderGCP,
		DisplayName:        "Google Cloud Platform",
		CostColumn:         types.CostColumnList,
		ChargePeriodColumn: "charge_period_start",
		BudgetColumn:       "monthly_budget",
		ServiceFilters: []ServiceFilter{
			{Prefix: "compute", ServiceCode: "Compute Engine", Label: "Compute Engine"},
			{Prefix: "storage", ServiceCode: "Cloud Storage", Label: "Cloud Storage"},
			{Prefix: "network", ServiceCode: "Networking", Label: "Networking"},
			{Prefix: "kms", ServiceCode: "Cloud KMS", Label: "Cloud KMS"},
			{Prefix: "registry", ServiceCode: "Artifact Registry", Label: "Artifact Registry"},
		},
	}
}
