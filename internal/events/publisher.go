package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/cart"
)

type PublishMetadata struct {
	CorrelationID string
	DisplayTotal  string
}

type CartEventsPublisher interface {
	PublishCartCheckedOut(ctx context.Context, sessionID string, items []cart.Item, metadata PublishMetadata) error
	// SessionClosed releases per-session publishing state.
	SessionClosed(sessionID string)
}

// LogPublisher writes checkout events to the structured log. Checkout is a
// simulation, so nothing leaves the process.
type LogPublisher struct {
	logger    *zap.Logger
	sequences SequenceRepository
}

func NewLogPublisher(logger *zap.Logger, sequences SequenceRepository) *LogPublisher {
	return &LogPublisher{logger: logger, sequences: sequences}
}

func (p *LogPublisher) PublishCartCheckedOut(ctx context.Context, sessionID string, items []cart.Item, metadata PublishMetadata) error {
	seq, err := p.sequences.NextSequence(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := BuildCartCheckedOutEvent(sessionID, items, EnvelopeOptions{
		Sequence:      seq,
		CorrelationID: metadata.CorrelationID,
		DisplayTotal:  metadata.DisplayTotal,
	})

	p.logger.Info("cart checked out",
		zap.String("event_id", env.EventID),
		zap.String("event_name", env.EventName),
		zap.String("partition_key", env.PartitionKey),
		zap.Int64("sequence", env.Sequence),
		zap.String("correlation_id", env.CorrelationID),
		zap.Int("items", len(env.Payload.Items)),
		zap.String("total_amount", env.Payload.TotalAmount.StringFixed(2)),
		zap.Any("envelope", env))
	return nil
}

func (p *LogPublisher) SessionClosed(sessionID string) {
	p.sequences.Forget(sessionID)
}
