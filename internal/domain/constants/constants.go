// Package constants defines values shared across layers.
package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Event publisher providers
const (
	PubSubProviderNoop     = "noop"
	PubSubProviderLocal    = "local"
	PubSubProviderGoogle   = "google"
	PubSubProviderKafka    = "kafka"
	PubSubProviderRabbitMQ = "rabbitmq"
)

// Cache key prefixes
const (
	CacheKeyExport          = "coffeexport:export:"
	CacheKeyExporterExports = "coffeexport:exporter-exports:"
	CacheKeyFence           = "coffeexport:fence:"
)

// Organization labels recorded on approvals
const (
	OrganizationECX            = "ECX"
	OrganizationECTA           = "ECTA"
	OrganizationCommercialBank = "COMMERCIAL_BANK"
	OrganizationNationalBank   = "NBE"
	OrganizationCustoms        = "ERCA"
)
