package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/buyv/internal/feed/core/domain"
	"github.com/jupiterclapton/buyv/internal/feed/core/ports"
)

type EventHandler struct {
	service ports.FeedService
}

func NewEventHandler(service ports.FeedService) *EventHandler {
	return &EventHandler{service: service}
}

// Contrat implicite avec le publisher du contexte reels
type reelCreatedEvent struct {
	ID         string    `json:"id"`
	PromoterID string    `json:"promoter_id"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
}

// HandleReelCreated consomme "reel.created" et déclenche le fan-out.
func (h *EventHandler) HandleReelCreated(msg *nats.Msg) {
	// 1. Extraction du contexte de trace depuis les headers NATS : le
	// fan-out apparaît dans la même trace que la création du reel.
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	tracer := otel.Tracer("feed")
	ctx, span := tracer.Start(ctx, "process_reel_created", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event reelCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		slog.Error("❌ Invalid event format", "subject", msg.Subject, "error", err)
		return
	}

	slog.Info("📨 Feed received event", "reel_id", event.ID, "kind", event.Kind)

	entry := &domain.TimelineEntry{
		ReelID:     event.ID,
		PromoterID: event.PromoterID,
		Kind:       domain.ReelKind(event.Kind),
		CreatedAt:  event.CreatedAt,
	}

	// 2. Fan-out en background, borné : un promoteur à fort audience ne
	// doit pas bloquer le consumer NATS.
	go func() {
		childCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if err := h.service.DistributeReel(childCtx, entry); err != nil {
			slog.Error("❌ Fan-out failed", "reel_id", event.ID, "error", err)
		}
	}()
}
