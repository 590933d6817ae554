package otel

const (
	ResourceAttributesCount = "resource.attributes"
	ResourceSchemaURL       = "resource.schema_url"
)
