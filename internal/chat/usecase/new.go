package usecase

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"nutrition-assistant/internal/chat/repository"
	"nutrition-assistant/pkg/llmprovider"
	pkgLog "nutrition-assistant/pkg/log"
	"nutrition-assistant/pkg/stream"
)

const instrumentationName = "nutrition-assistant/internal/chat"

// Config tunes the relay.
type Config struct {
	SystemPrompt string        // empty uses DefaultSystemPrompt
	Pacing       time.Duration // negative is treated as zero
	SingleFlight bool          // share one upstream call between concurrent misses on a key

	// Nil providers use the OpenTelemetry globals.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

type implUseCase struct {
	l            pkgLog.Logger
	llm          *llmprovider.Manager
	repo         repository.Repository
	systemPrompt string
	pacing       time.Duration
	singleFlight bool
	group        singleflight.Group

	tracer  trace.Tracer
	metrics instruments
}

// New creates a new chat UseCase instance.
func New(l pkgLog.Logger, llm *llmprovider.Manager, repo repository.Repository, cfg Config) *implUseCase {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Pacing < 0 {
		cfg.Pacing = 0
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	return &implUseCase{
		l:            l,
		llm:          llm,
		repo:         repo,
		systemPrompt: cfg.SystemPrompt,
		pacing:       cfg.Pacing,
		singleFlight: cfg.SingleFlight,
		tracer:       cfg.TracerProvider.Tracer(instrumentationName),
		metrics:      newInstruments(cfg.MeterProvider.Meter(instrumentationName)),
	}
}

func (uc *implUseCase) newStream(chunks []string) *stream.Stream {
	return stream.New(chunks, uc.pacing)
}
