package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/mdelapenya/otelcompat/compat"
	"github.com/mdelapenya/otelcompat/internal/config"
	"github.com/mdelapenya/otelcompat/internal/logging"
	"github.com/mdelapenya/otelcompat/internal/otel"
	"github.com/mdelapenya/otelcompat/internal/readers"
	"github.com/mdelapenya/otelcompat/internal/scm"
	"github.com/mdelapenya/otelcompat/internal/transform"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

type resolvedResource struct {
	Attributes compat.Attributes `json:"attributes"`
	SchemaURL  string            `json:"schemaUrl,omitempty"`
}

// resolveResource layers every source on top of the base resource. Later
// layers win on key collision.
func resolveResource(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*compat.Resource, error) {
	adapter := compat.NewAdapter(cfg.Factory())

	res := adapter.DefaultResource()
	if cfg.SkipDefault {
		res = adapter.EmptyResource()
	}

	layers := []func() (*compat.Resource, error){
		func() (*compat.Resource, error) {
			fromEnv, err := resource.New(ctx, resource.WithFromEnv())
			if err != nil {
				return nil, fmt.Errorf("failed to read resource from environment: %w", err)
			}
			return adapter.CreateResourceFromDetector(fromEnv)
		},
		func() (*compat.Resource, error) {
			return adapter.CreateResourceFromOTelDetector(ctx, otel.RuntimeDetector{})
		},
		func() (*compat.Resource, error) {
			repository := scm.GetScm(cfg.RepositoryPath)
			if repository == nil {
				logger.Debugw("not a git repository", "path", cfg.RepositoryPath)
				return adapter.EmptyResource(), nil
			}
			return adapter.CreateResourceFromOTelDetector(ctx, repository)
		},
		func() (*compat.Resource, error) {
			if cfg.DetectorFile == "" {
				return adapter.EmptyResource(), nil
			}
			result, err := readers.ReadDetectorResult(readers.NewReader(cfg.DetectorFile))
			if err != nil {
				return nil, err
			}
			return adapter.CreateResourceFromDetector(result)
		},
		func() (*compat.Resource, error) {
			service := compat.Attributes{string(semconv.ServiceNameKey): cfg.ServiceName}
			if cfg.ServiceVersion != "" {
				service[string(semconv.ServiceVersionKey)] = cfg.ServiceVersion
			}
			return adapter.CreateResource(service)
		},
		func() (*compat.Resource, error) {
			return adapter.CreateResource(cfg.AdditionalAttributes)
		},
	}

	for _, layer := range layers {
		next, err := layer()
		if err != nil {
			return nil, err
		}

		res, err = res.Merge(next)
		if err != nil {
			return nil, fmt.Errorf("failed to merge resource: %w", err)
		}
	}

	logger.Debugw("resource resolved", "attributes", res.Len(), "schemaUrl", res.SchemaURL())

	return res, nil
}

func printResource(w io.Writer, res *compat.Resource) error {
	out, err := json.MarshalIndent(resolvedResource{
		Attributes: res.Attributes(),
		SchemaURL:  res.SchemaURL(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode resource: %w", err)
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}

func Main(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	cfg, err := config.NewConfigFromArgs(args)
	if err != nil {
		return err
	}

	logger := logging.NewWithWriter(stderr, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	res, err := resolveResource(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := printResource(stdout, res); err != nil {
		return err
	}

	if cfg.SkipTraces && cfg.SkipMetrics {
		return nil
	}

	provider, err := otel.NewProvider(ctx, cfg, res, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
		defer cancel()
		// pushes any last exports to the receiver
		provider.Shutdown(ctx)
	}()

	return transform.AnnounceResource(ctx, cfg, provider, res)
}

func main() {
	if err := Main(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logging.New(logging.LevelError).Fatal(err)
	}
}
