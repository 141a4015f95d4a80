// Package reconcile persists settlement failures. Each case is written
// as a durable row and, when a broker is configured, also published to
// the reconciliation queue for async follow-up. Flagging never re-runs
// the settlement.
package reconcile

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"streaming-app/internal/domain/billing"
	"streaming-app/internal/domain/payment"
	"streaming-app/internal/infra/queue"
)

type Notifier struct {
	db          *gorm.DB
	rabbitmqURL string
}

func NewNotifier(db *gorm.DB, rabbitmqURL string) *Notifier {
	return &Notifier{db: db, rabbitmqURL: rabbitmqURL}
}

func (n *Notifier) Flag(ctx context.Context, ev payment.ReconciliationEvent) error {
	err := n.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(&billing.ReconciliationCase{
			TransactionID: ev.TransactionID,
			UserID:        ev.UserID,
			TitleID:       ev.TitleID,
			Amount:        ev.Amount,
			Reason:        ev.Reason,
		}).Error
	if err != nil {
		return fmt.Errorf("persist reconciliation case tx=%s: %w", ev.TransactionID, err)
	}

	if n.rabbitmqURL != "" {
		// Best effort: the durable row is the source of truth.
		if err := queue.PublishSettlementFailure(ctx, n.rabbitmqURL, ev); err != nil {
			log.Printf("reconciliation publish failed tx=%s: %v", ev.TransactionID, err)
		}
	}
	return nil
}
