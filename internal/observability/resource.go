// Package observability provides OpenTelemetry setup for tracing, metrics,
// and structured logging. The clock binary uses it so engine instruments
// and lifecycle spans reach an OTLP collector when one is configured.
package observability

import (
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ServiceInfo identifies the running process in every exported signal.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// newResource builds a resource with service attributes only (avoids schema
// conflicts with resource.Default()).
func newResource(svc ServiceInfo) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(svc.Name),
		semconv.ServiceVersion(svc.Version),
		semconv.DeploymentEnvironment(svc.Environment),
	)
}
