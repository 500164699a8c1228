// Package providers - Azure cost schema
package providers

import "costwatch/core/types"

// azureSchema maps Azure cost export columns onto the core. Azure
// meters against the invoiced amount, not the list price.
func azureSchema() Schema {
	return Schema{
		Provider:           types.ProviderAzure,
		DisplayName:        "Microsoft Azure",
		CostColumn:         types.CostColumnBilled,
		ChargePeriodColumn: "charge_period_start",
		BudgetColumn:       "monthly_budget",
		ServiceFilters: []ServiceFilter{
			{Prefix: "compute", ServiceCode: "Virtual Machines", Label: "Virtual Machines"},
			{Prefix: "storage", ServiceCode: "Storage", Label: "Storage Accounts"},
			{Prefix: "network", ServiceCode: "Virtual Network", Label: "Virtual Network"},
			{Prefix: "kms", ServiceCode: "Key Vault", Label: "Key Vault"},
			{Prefix: "registry", ServiceCode: "Container Registry", Label: "Container Registry"},
		},
	}
}
