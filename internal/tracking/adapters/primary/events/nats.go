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

	"github.com/jupiterclapton/buyv/internal/tracking/core/ports"
)

type EventHandler struct {
	service ports.TrackingService
}

func NewEventHandler(service ports.TrackingService) *EventHandler {
	return &EventHandler{service: service}
}

// Contrat implicite avec le sink NATS du coordinateur de lecture
type reelViewedEvent struct {
	ReelID         string  `json:"reel_id"`
	PromoterID     string  `json:"promoter_uid"`
	ProductID      string  `json:"product_id"`
	SessionID      string  `json:"session_id"`
	ViewerID       string  `json:"viewer_uid"`
	WatchDuration  int     `json:"watch_duration"`
	CompletionRate float64 `json:"completion_rate"`
}

// HandleReelViewed consomme "reel.viewed" et persiste l'impression.
func (h *EventHandler) HandleReelViewed(msg *nats.Msg) {
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	tracer := otel.Tracer("tracking")
	ctx, span := tracer.Start(ctx, "process_reel_viewed", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event reelViewedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		slog.Error("❌ Invalid event format", "subject", msg.Subject, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := h.service.TrackView(ctx, ports.TrackViewCmd{
		ReelID:         event.ReelID,
		PromoterID:     event.PromoterID,
		ProductID:      event.ProductID,
		ViewerID:       event.ViewerID,
		SessionID:      event.SessionID,
		WatchDuration:  event.WatchDuration,
		CompletionRate: event.CompletionRate,
	})
	if err != nil {
		span.RecordError(err)
		slog.Error("❌ Failed to track view from event", "reel_id", event.ReelID, "error", err)
	}
}
