package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/hyperwatch/internal/model"
)

// Message is one rendered notification for one subscriber.
type Message struct {
	ID             uuid.UUID              `json:"id"`
	NotificationID uuid.UUID              `json:"notification_id"`
	SubscriberID   string                 `json:"subscriber_id"`
	Kind           model.NotificationKind `json:"kind"`
	Wallet         string                 `json:"wallet,omitempty"`
	Text           string                 `json:"text"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Sender delivers a message to the chat front-end. Acceptance by the sender is
// the end of the watcher's responsibility.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
