package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	"github.com/adiletbaev/distribo-backend/pkg/logger"
	"github.com/adiletbaev/distribo-backend/pkg/outbox"
	"github.com/adiletbaev/distribo-backend/pkg/outbox/idempotency"
	"github.com/adiletbaev/distribo-backend/pkg/outbox/payloads"
)

const orderNotificationConsumer = "order-notifications"

// Consumer watches domain events and turns settlement and defect activity
// into in-app notifications.
type Consumer struct {
	repo         Repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the order notification consumer.
func NewConsumer(repo Repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	handled := map[string]bool{
		string(enums.EventDebtPaymentRecorded): true,
		string(enums.EventDefectReported):      true,
		string(enums.EventDefectDecided):       true,
	}
	if !handled[eventType] {
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handle(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

func (c *Consumer) handle(ctx context.Context, eventType string, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case string(enums.EventDebtPaymentRecorded):
		var payload payloads.DebtPaymentRecordedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		return c.notifyPaymentRecorded(ctx, payload, logCtx)
	case string(enums.EventDefectReported):
		var payload payloads.DefectReportedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		return c.notifyDefectReported(ctx, payload, logCtx)
	case string(enums.EventDefectDecided):
		var payload payloads.DefectDecidedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		return c.notifyDefectDecided(ctx, payload, logCtx)
	}
	return nil
}

func (c *Consumer) notifyPaymentRecorded(ctx context.Context, payload payloads.DebtPaymentRecordedEvent, logCtx context.Context) error {
	ownerID, err := c.repo.FindStoreOwnerID(ctx, payload.StoreID)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("/orders/%s/payments", payload.OrderID)
	notification := &models.Notification{
		UserID:  ownerID,
		Type:    enums.NotificationTypeDebtAlert,
		Title:   "Payment recorded",
		Message: fmt.Sprintf("A payment of %s was recorded against order %s. Remaining debt: %s.", payload.Amount, payload.OrderID, payload.RemainingDebt),
		Link:    stringPtr(link),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "store notified of payment")
	return nil
}

func (c *Consumer) notifyDefectReported(ctx context.Context, payload payloads.DefectReportedEvent, logCtx context.Context) error {
	adminIDs, err := c.repo.ListAdminIDs(ctx)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("/admin/defects/%s", payload.DefectID)
	for _, adminID := range adminIDs {
		notification := &models.Notification{
			UserID:  adminID,
			Type:    enums.NotificationTypeDefectAlert,
			Title:   "Defect claim filed",
			Message: fmt.Sprintf("A defect claim was filed against order %s.", payload.OrderID),
			Link:    stringPtr(link),
		}
		if err := c.repo.Create(ctx, notification); err != nil {
			return err
		}
	}
	c.logg.Info(logCtx, "admins notified of defect claim")
	return nil
}

func (c *Consumer) notifyDefectDecided(ctx context.Context, payload payloads.DefectDecidedEvent, logCtx context.Context) error {
	ownerID, err := c.repo.FindStoreOwnerID(ctx, payload.StoreID)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("/defects/%s", payload.DefectID)
	title := "Defect claim rejected"
	if payload.Status == enums.DefectStatusApproved {
		title = "Defect claim approved"
	}
	notification := &models.Notification{
		UserID:  ownerID,
		Type:    enums.NotificationTypeDefectAlert,
		Title:   title,
		Message: fmt.Sprintf("Your defect claim for order %s was %s.", payload.OrderID, payload.Status),
		Link:    stringPtr(link),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "store notified of defect decision")
	return nil
}

func stringPtr(value string) *string {
	return &value
}
