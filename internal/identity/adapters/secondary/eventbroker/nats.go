package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName            = "IDENTITY"
	SubjectPattern        = "identity.>"
	SubjectUserRegistered = "identity.user.registered"
)

// NatsBroker implémente ports.EventPublisher sur JetStream : les events
// d'inscription alimentent l'onboarding (emails de bienvenue, stats) et
// doivent survivre à un redémarrage du broker.
type NatsBroker struct {
	js jetstream.JetStream
}

// NewNatsBroker s'assure que le Stream existe (idempotent).
func NewNatsBroker(nc *nats.Conn) (*NatsBroker, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage, // Persistance sur disque
		Replicas: 1,                     // Mettre 3 en cluster
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsBroker{js: js}, nil
}

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (n *NatsBroker) PublishUserRegistered(ctx context.Context, userID, email string) error {
	data, err := json.Marshal(UserRegisteredEvent{UserID: userID, Email: email})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// JetStream confirme que le serveur a persisté le message
	if _, err := n.js.Publish(ctx, SubjectUserRegistered, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}
