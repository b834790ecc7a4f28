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

	"github.com/jupiterclapton/buyv/internal/notification/core/domain"
	"github.com/jupiterclapton/buyv/internal/notification/core/ports"
)

type EventHandler struct {
	service ports.NotificationService
}

func NewEventHandler(service ports.NotificationService) *EventHandler {
	return &EventHandler{service: service}
}

// Contrat implicite avec le publisher du contexte graph
type userFollowedEvent struct {
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleUserFollowed consomme "graph.user.followed" et notifie la cible.
func (h *EventHandler) HandleUserFollowed(msg *nats.Msg) {
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	tracer := otel.Tracer("notification")
	ctx, span := tracer.Start(ctx, "process_user_followed", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event userFollowedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		slog.Error("❌ Invalid event format", "subject", msg.Subject, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := h.service.Notify(ctx, event.TargetID, domain.KindNewFollower, event.ActorID, ""); err != nil {
		span.RecordError(err)
		slog.Error("❌ Failed to create follow notification",
			"target_id", event.TargetID, "actor_id", event.ActorID, "error", err)
		return
	}

	slog.Info("✅ Follow notification delivered", "target_id", event.TargetID)
}
