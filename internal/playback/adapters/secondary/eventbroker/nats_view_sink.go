package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/buyv/internal/playback"
)

// SubjectReelViewed est le contrat implicite avec le contexte tracking.
const SubjectReelViewed = "reel.viewed"

// NatsViewSink publie les événements "viewed" du coordinateur de lecture
// sur NATS. Le tracking les consomme et les persiste ; le coordinateur,
// lui, n'attend jamais la persistance.
type NatsViewSink struct {
	nc *nats.Conn
}

func NewNatsViewSink(nc *nats.Conn) *NatsViewSink {
	return &NatsViewSink{nc: nc}
}

// Structure de l'event (contrat implicite avec le consumer tracking)
type ReelViewedEvent struct {
	ReelID         string  `json:"reel_id"`
	PromoterID     string  `json:"promoter_uid"`
	ProductID      string  `json:"product_id,omitempty"`
	SessionID      string  `json:"session_id,omitempty"`
	WatchDuration  int     `json:"watch_duration,omitempty"`
	CompletionRate float64 `json:"completion_rate,omitempty"`
}

func (s *NatsViewSink) TrackView(ctx context.Context, ev playback.ViewEvent) error {
	event := ReelViewedEvent{
		ReelID:         ev.ReelID,
		PromoterID:     ev.PromoterID,
		ProductID:      ev.ProductID,
		SessionID:      ev.SessionID,
		WatchDuration:  ev.WatchDuration,
		CompletionRate: ev.CompletionRate,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: SubjectReelViewed,
		Data:    data,
		Header:  nats.Header{},
	}
	// Injection du contexte de trace dans les headers NATS : le consumer
	// tracking raccroche son span à celui de la session de lecture.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Debug("📢 Publishing reel view", "reel_id", ev.ReelID, "promoter_id", ev.PromoterID)

	return s.nc.PublishMsg(msg)
}
