package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	sobremesasProposed metric.Int64Counter
	cartasSubmitted    metric.Int64Counter
	cartaDecisions     metric.Int64Counter
	ledgerEntries      metric.Int64Counter
	rateLimitAllowed   metric.Int64Counter
	rateLimitDenied    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "sobremesa"
	}
	meter := provider.Meter(name)

	sobremesasProposed, err := meter.Int64Counter("sobremesa_proposed_total")
	if err != nil {
		return nil, err
	}
	cartasSubmitted, err := meter.Int64Counter("sobremesa_cartas_submitted_total")
	if err != nil {
		return nil, err
	}
	cartaDecisions, err := meter.Int64Counter("sobremesa_carta_decisions_total")
	if err != nil {
		return nil, err
	}
	ledgerEntries, err := meter.Int64Counter("sobremesa_participaciones_total")
	if err != nil {
		return nil, err
	}
	rateLimitAllowed, err := meter.Int64Counter("sobremesa_rate_limit_allowed_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("sobremesa_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		sobremesasProposed: sobremesasProposed,
		cartasSubmitted:    cartasSubmitted,
		cartaDecisions:     cartaDecisions,
		ledgerEntries:      ledgerEntries,
		rateLimitAllowed:   rateLimitAllowed,
		rateLimitDenied:    rateLimitDenied,
	}, nil
}

// RecordSobremesaProposed increments proposal counts.
func (m *Metrics) RecordSobremesaProposed(ctx context.Context) {
	if m == nil {
		return
	}
	m.sobremesasProposed.Add(ctx, 1)
}

// RecordCartaSubmitted increments letter submission counts.
func (m *Metrics) RecordCartaSubmitted(ctx context.Context) {
	if m == nil {
		return
	}
	m.cartasSubmitted.Add(ctx, 1)
}

// RecordCartaDecision increments decision counts.
func (m *Metrics) RecordCartaDecision(ctx context.Context, decision string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("decision", strings.TrimSpace(decision)))
	m.cartaDecisions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordParticipacion increments participation ledger counts.
func (m *Metrics) RecordParticipacion(ctx context.Context, role string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("role", strings.TrimSpace(role)))
	m.ledgerEntries.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitAllowed increments rate limit allow counts.
func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitAllowed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"decision":    {},
	"role":        {},
	"endpoint":    {},
	"status_code": {},
	"reason":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
