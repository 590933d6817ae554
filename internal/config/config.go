package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mdelapenya/otelcompat/compat"
	"github.com/spf13/pflag"
)

const Otelcompat = "otelcompat"

// StdinPath selects standard input as the detector result source.
const StdinPath = "-"

type Config struct {
	// Path to the SCM repository to be inspected by the git detector
	RepositoryPath string

	// OpenTelemetry Service Name to be set on the resolved resource
	ServiceName string
	// OpenTelemetry Service Version to be set on the resolved resource
	ServiceVersion string
	// OpenTelemetry Trace Name used when announcing the resolved resource
	TraceName string
	// Attributes merged on top of the detected ones
	AdditionalAttributes compat.Attributes

	// Path to a JSON detector result, or "-" to read it from stdin
	DetectorFile string
	// Schema URL for created resources. Empty means schemaless
	SchemaURL string
	// Start from the empty resource instead of the SDK default one
	SkipDefault bool

	// Maximum export batch size allowed when creating a BatchSpanProcessor.
	// Default is 10
	BatchSize int
	// Skip sending traces to the OpenTelemetry collector
	SkipTraces bool
	// Skip sending metrics to the OpenTelemetry collector
	SkipMetrics bool

	LogLevel string
}

func NewConfigFromDefaults() *Config {
	return &Config{
		RepositoryPath: GetDefaultwd(),

		ServiceName:          Otelcompat,
		ServiceVersion:       "",
		TraceName:            Otelcompat,
		AdditionalAttributes: compat.Attributes{},

		DetectorFile: "",
		SchemaURL:    "",
		SkipDefault:  false,

		BatchSize:   10,
		SkipTraces:  false,
		SkipMetrics: false,

		LogLevel: "info",
	}
}

// NewConfigFromArgs parses args, which must not include the program name.
func NewConfigFromArgs(args []string) (*Config, error) {
	const defaultMaxBatchSize = 10

	fs := pflag.NewFlagSet(Otelcompat, pflag.ContinueOnError)

	batchSizeFlag := fs.Int("batch-size", defaultMaxBatchSize, "Maximum export batch size allowed when creating a BatchSpanProcessor")
	repositoryPathFlag := fs.String("repository-path", GetDefaultwd(), "Path to the SCM repository to be read")
	serviceNameFlag := fs.String("service-name", "", "OpenTelemetry Service Name to be set on the resource")
	serviceVersionFlag := fs.String("service-version", "", "OpenTelemetry Service Version to be set on the resource")
	traceNameFlag := fs.String("trace-name", Otelcompat, "OpenTelemetry Trace Name used when announcing the resource")
	additionalAttributesFlag := fs.String("additional-attributes", "", "Comma separated list of key=value attributes to be added to the resource")
	detectorFileFlag := fs.String("detector-file", "", "Path to a JSON detector result, use - for stdin")
	schemaURLFlag := fs.String("schema-url", "", "Schema URL for the created resources")
	skipDefaultFlag := fs.Bool("skip-default", false, "Do not include the SDK default resource")
	skipTracesFlag := fs.Bool("traces-skip-sending", false, "Skip sending traces to the OpenTelemetry collector")
	skipMetricsFlag := fs.Bool("metrics-skip-sending", false, "Skip sending metrics to the OpenTelemetry collector")
	logLevelFlag := fs.String("log-level", "info", "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	additionalAttrs, err := processAdditionalAttributes(*additionalAttributesFlag)
	if err != nil {
		return nil, err
	}

	return &Config{
		RepositoryPath: *repositoryPathFlag,

		ServiceName:          getOtlpServiceName(*serviceNameFlag),
		ServiceVersion:       getOtlpServiceVersion(*serviceVersionFlag),
		TraceName:            *traceNameFlag,
		AdditionalAttributes: additionalAttrs,

		DetectorFile: *detectorFileFlag,
		SchemaURL:    *schemaURLFlag,
		SkipDefault:  *skipDefaultFlag,

		BatchSize:   *batchSizeFlag,
		SkipTraces:  *skipTracesFlag,
		SkipMetrics: *skipMetricsFlag,

		LogLevel: *logLevelFlag,
	}, nil
}

// Factory returns the resource factory matching the configured schema URL.
func (c *Config) Factory() compat.Factory {
	if c.SchemaURL == "" {
		return compat.SchemalessFactory{}
	}
	return compat.SchemaFactory{SchemaURL: c.SchemaURL}
}

// GetDefaultwd retrieves the current working dir, using '.' in the case an error occurs
func GetDefaultwd() string {
	workingDir, err := os.Getwd()
	if err != nil {
		return "."
	}

	return workingDir
}

// getOtlpEnvVar the precedence order is: flag > env var > fallback
func getOtlpEnvVar(flag string, envVarKey string, fallback string) string {
	if flag != "" {
		return flag
	}

	envVar := os.Getenv(envVarKey)
	if envVar != "" {
		return envVar
	}

	return fallback
}

// getOtlpServiceName checks the service name
func getOtlpServiceName(serviceNameFlag string) string {
	return getOtlpEnvVar(serviceNameFlag, "OTEL_SERVICE_NAME", Otelcompat)
}

// getOtlpServiceVersion checks the service version
func getOtlpServiceVersion(serviceVersionFlag string) string {
	return getOtlpEnvVar(serviceVersionFlag, "OTEL_SERVICE_VERSION", "")
}

func processAdditionalAttributes(additionalAttributes string) (compat.Attributes, error) {
	additionalAttrs := compat.Attributes{}

	if additionalAttributes == "" {
		return additionalAttrs, nil
	}

	additionalAttrsErrors := []error{}

	for _, attr := range strings.Split(additionalAttributes, ",") {
		kv := strings.SplitN(attr, "=", 2)
		key := ""
		if len(kv) == 2 {
			key = strings.TrimSpace(kv[0])
		}
		if key == "" {
			additionalAttrsErrors = append(additionalAttrsErrors,
				fmt.Errorf("invalid attribute: %s", attr))
			continue
		}

		additionalAttrs[key] = strings.TrimSpace(kv[1])
	}

	if err := errors.Join(additionalAttrsErrors...); err != nil {
		return nil, fmt.Errorf("failed to add additional attributes: %w", err)
	}

	return additionalAttrs, nil
}
