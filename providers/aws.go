// Package providers - AWS cost schema
package providers

import "costwatch/core/types"

// awsSchema maps AWS Cost and Usage Report columns onto the core.
// AWS meters against the undiscounted list price.
func awsSchema() Schema {
	return Schema{
		Provider:           types.ProviderAWS,
		DisplayName:        "Amazon Web Services",
		CostColumn:         types.CostColumnList,
		ChargePeriodColumn: "charge_period_start",
		BudgetColumn:       "monthly_budget",
		ServiceFilters: []ServiceFilter{
			// "ecc" is the historical compute prefix; downstream
			// dashboards key on names like ecc_month_to_date_cost
			{Prefix: "ecc", ServiceCode: "AmazonEC2", Label: "EC2 compute"},
			{Prefix: "storage", ServiceCode: "AmazonS3", Label: "S3 storage"},
			{Prefix: "network", ServiceCode: "AmazonVPC", Label: "VPC networking"},
			{Prefix: "kms", ServiceCode: "awskms", Label: "Key Management Service"},
			{Prefix: "registry", ServiceCode: "AmazonECR", Label: "Elastic Container Registry"},
		},
	}
}
