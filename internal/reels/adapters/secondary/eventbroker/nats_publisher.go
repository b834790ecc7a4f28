package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/buyv/internal/reels/core/domain"
)

const (
	SubjectReelCreated = "reel.created"
	SubjectReelDeleted = "reel.deleted"
)

type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// Structure de l'event (contrat implicite avec le contexte feed)
type ReelCreatedEvent struct {
	ID         string    `json:"id"`
	PromoterID string    `json:"promoter_id"`
	Kind       string    `json:"kind"` // "video" ou "image"
	ProductID  string    `json:"product_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *NatsPublisher) PublishReelCreated(ctx context.Context, reel *domain.Reel) error {
	kind := "image"
	if reel.HasVideo() {
		kind = "video"
	}

	event := ReelCreatedEvent{
		ID:         reel.ID,
		PromoterID: reel.PromoterID,
		Kind:       kind,
		ProductID:  reel.ProductID,
		CreatedAt:  reel.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: SubjectReelCreated,
		Data:    data,
		Header:  nats.Header{},
	}
	// Injection du TraceID dans les headers NATS : le fan-out du feed
	// hérite de la trace de la requête de création.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Info("📢 Publishing event with trace context", "topic", msg.Subject, "reel_id", reel.ID)

	return p.nc.PublishMsg(msg)
}

func (p *NatsPublisher) PublishReelDeleted(ctx context.Context, reelID string) error {
	return p.nc.Publish(SubjectReelDeleted, []byte(reelID))
}
