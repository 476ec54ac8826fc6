package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nutrition-assistant/internal/chat"
	"nutrition-assistant/internal/chat/repository"
	"nutrition-assistant/pkg/llmprovider"
)

// Relay answers a conversation. The cache is keyed only on the normalized
// final message, so two histories ending in the same line share a reply.
func (uc *implUseCase) Relay(ctx context.Context, input chat.RelayInput) (chat.RelayOutput, error) {
	ctx, span := uc.tracer.Start(ctx, "chat.Relay",
		trace.WithAttributes(attribute.Int("chat.messages", len(input.Messages))))
	defer span.End()

	last, ok := input.Messages.Last()
	if !ok {
		span.SetStatus(codes.Error, chat.ErrInvalidMessages.Error())
		return chat.RelayOutput{}, chat.ErrInvalidMessages
	}
	key := NormalizeKey(last.Content)

	entry, hit, err := uc.repo.Get(ctx, key)
	if err != nil {
		// A broken cache must not fail the request.
		uc.l.Warnf(ctx, "chat.usecase.Relay: repo.Get: %v", err)
		span.RecordError(err)
	}
	span.SetAttributes(attribute.Bool("chat.cache_hit", hit))
	uc.metrics.recordRequest(ctx, hit)

	if hit {
		uc.l.Debugf(ctx, "chat.usecase.Relay: cache hit (%d chunks)", len(entry.Chunks))
		return chat.RelayOutput{Stream: uc.newStream(entry.Chunks), CacheHit: true}, nil
	}

	chunks, err := uc.generate(ctx, key, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream generation failed")
		return chat.RelayOutput{}, err
	}
	span.SetAttributes(attribute.Int("chat.chunks", len(chunks)))

	return chat.RelayOutput{Stream: uc.newStream(chunks)}, nil
}

func (uc *implUseCase) generate(ctx context.Context, key string, input chat.RelayInput) ([]string, error) {
	if !uc.singleFlight {
		return uc.generateAndStore(ctx, key, input)
	}

	// The shared call outlives any single caller's cancellation.
	v, err, shared := uc.group.Do(key, func() (interface{}, error) {
		return uc.generateAndStore(context.WithoutCancel(ctx), key, input)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		uc.l.Debugf(ctx, "chat.usecase.Relay: joined in-flight generation")
	}
	return v.([]string), nil
}

func (uc *implUseCase) generateAndStore(ctx context.Context, key string, input chat.RelayInput) ([]string, error) {
	ctx, span := uc.tracer.Start(ctx, "chat.Generate")
	defer span.End()

	prompt := BuildPrompt(uc.systemPrompt, input.HealthProfile, input.Messages)
	span.SetAttributes(attribute.Int("chat.prompt_bytes", len(prompt)))

	start := time.Now()
	resp, err := uc.llm.GenerateContent(ctx, llmprovider.TextRequest(prompt))
	uc.metrics.upstreamTime.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		uc.l.Errorf(ctx, "chat.usecase.Relay: llm.GenerateContent: %v", err)
		uc.metrics.upstreamErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("%w: %v", chat.ErrUpstream, err)
	}
	span.SetAttributes(
		attribute.String("llm.provider", resp.ProviderName),
		attribute.String("llm.model", resp.ModelName),
	)

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		uc.l.Errorf(ctx, "chat.usecase.Relay: empty reply from %s/%s", resp.ProviderName, resp.ModelName)
		uc.metrics.upstreamErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "empty reply")
		return nil, fmt.Errorf("%w: empty reply", chat.ErrUpstream)
	}

	chunks := Chunk(text)
	if err := uc.repo.Set(ctx, repository.Entry{Key: key, Chunks: chunks}); err != nil {
		uc.l.Warnf(ctx, "chat.usecase.Relay: repo.Set: %v", err)
		span.RecordError(err)
	}

	return chunks, nil
}
