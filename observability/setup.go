package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/chimney/validation"
)

// Config selects which telemetry signals are exported.
type Config struct {
	Tracing *TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics *MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Tracing != nil {
		if err := validation.Validate(c.Tracing); err != nil {
			return fmt.Errorf("observability: tracing: %w", err)
		}
	}
	return nil
}

// Providers holds the providers started by Setup.
type Providers struct {
	Tracer  *sdktrace.TracerProvider
	Meter   *sdkmetric.MeterProvider
	Metrics *Metrics
}

// Setup starts the configured providers. A nil config or section leaves the
// corresponding global provider as a no-op.
func Setup(ctx context.Context, cfg *Config) (*Providers, error) {
	p := &Providers{}
	if cfg == nil {
		return p, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Tracing != nil {
		tp, err := InitTracer(ctx, *cfg.Tracing)
		if err != nil {
			return nil, err
		}
		p.Tracer = tp
	}

	if cfg.Metrics != nil {
		mp, err := InitMeter(ctx, *cfg.Metrics)
		if err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
		p.Meter = mp
		m, err := NewMetrics(mp.Meter(defaultTracerName))
		if err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
		p.Metrics = m
	}

	return p, nil
}

// Shutdown flushes and stops every started provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
