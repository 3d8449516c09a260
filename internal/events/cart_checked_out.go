package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/cart"
)

const (
	CartCheckedOutEventName    = "CartCheckedOut"
	CartCheckedOutEventVersion = 1
	StorefrontProducer         = "storefront"
)

type EventEnvelope struct {
	EventName     string                `json:"eventName"`
	EventVersion  int                   `json:"eventVersion"`
	EventID       string                `json:"eventId"`
	CorrelationID string                `json:"correlationId,omitempty"`
	Producer      string                `json:"producer"`
	PartitionKey  string                `json:"partitionKey"`
	Sequence      int64                 `json:"sequence"`
	OccurredAt    time.Time             `json:"occurredAt"`
	Payload       CartCheckedOutPayload `json:"payload"`
}

type CartCheckedOutPayload struct {
	SessionID    string               `json:"sessionId"`
	Items        []CartCheckedOutItem `json:"items"`
	TotalAmount  decimal.Decimal      `json:"totalAmount"`
	DisplayTotal string               `json:"displayTotal"`
}

type CartCheckedOutItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type EnvelopeOptions struct {
	Sequence      int64
	CorrelationID string
	EventID       string
	OccurredAt    time.Time
	DisplayTotal  string
}

// BuildCartCheckedOutEvent snapshots items as they were at checkout. The
// session id doubles as partition key.
func BuildCartCheckedOutEvent(sessionID string, items []cart.Item, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payload := CartCheckedOutPayload{
		SessionID:    sessionID,
		Items:        make([]CartCheckedOutItem, 0, len(items)),
		TotalAmount:  decimal.Zero,
		DisplayTotal: opts.DisplayTotal,
	}
	for _, it := range items {
		payload.Items = append(payload.Items, CartCheckedOutItem{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		payload.TotalAmount = payload.TotalAmount.Add(it.Subtotal())
	}

	return EventEnvelope{
		EventName:     CartCheckedOutEventName,
		EventVersion:  CartCheckedOutEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		Producer:      StorefrontProducer,
		PartitionKey:  sessionID,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Payload:       payload,
	}
}
