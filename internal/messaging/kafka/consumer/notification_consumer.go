package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-timesheet/internal/events"
	"go-timesheet/internal/notification"
)

// ConsumeEntryFlagged turns compliance alerts into employee
// notifications. Invalid payloads are committed and dropped so a
// poison message cannot wedge the group.
func ConsumeEntryFlagged(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.entry_flagged")
	log.Info("entry flagged consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("entry flagged consumer stopped")
				return
			}
			log.Error("fetch entry flagged message failed", zap.Error(err))
			continue
		}

		var event events.EntryFlaggedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode entry flagged event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		employeeID, err := uuid.Parse(event.EmployeeID)
		if err != nil {
			log.Error("entry flagged event carries invalid employee id",
				zap.String("employee_id", event.EmployeeID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		message := fmt.Sprintf("An entry of yours was flagged for review: %s", event.Reason)
		if err := notificationService.Notify(ctx, employeeID, notification.KindEntryFlagged, "Entry flagged", message); err != nil {
			log.Error("notify flagged entry failed",
				zap.String("entry_id", event.EntryID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit entry flagged message failed", zap.Error(err))
			continue
		}

		log.Info("entry flagged notification delivered",
			zap.String("entry_id", event.EntryID),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}

// ConsumeEntryReviewed notifies the employee about approval and
// rejection outcomes, including auto-approvals.
func ConsumeEntryReviewed(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.entry_reviewed")
	log.Info("entry reviewed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("entry reviewed consumer stopped")
				return
			}
			log.Error("fetch entry reviewed message failed", zap.Error(err))
			continue
		}

		var event events.EntryReviewedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode entry reviewed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		employeeID, err := uuid.Parse(event.EmployeeID)
		if err != nil {
			log.Error("entry reviewed event carries invalid employee id",
				zap.String("employee_id", event.EmployeeID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		title := "Entry approved"
		message := "Your timesheet entry was approved."
		if !event.Approved {
			title = "Entry rejected"
			message = fmt.Sprintf("Your timesheet entry was rejected: %s", event.Comment)
		}

		if err := notificationService.Notify(ctx, employeeID, notification.KindEntryReviewed, title, message); err != nil {
			log.Error("notify reviewed entry failed",
				zap.String("entry_id", event.EntryID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit entry reviewed message failed", zap.Error(err))
			continue
		}

		log.Info("entry reviewed notification delivered",
			zap.String("entry_id", event.EntryID),
			zap.Bool("approved", event.Approved),
		)
	}
}

// ConsumeAdjustmentRequested acknowledges adjustment requests back to
// the requesting employee with the assigned protocol number.
func ConsumeAdjustmentRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.adjustment_requested")
	log.Info("adjustment requested consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("adjustment requested consumer stopped")
				return
			}
			log.Error("fetch adjustment requested message failed", zap.Error(err))
			continue
		}

		var event events.AdjustmentRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode adjustment requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		employeeID, err := uuid.Parse(event.EmployeeID)
		if err != nil {
			log.Error("adjustment requested event carries invalid employee id",
				zap.String("employee_id", event.EmployeeID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		message := fmt.Sprintf("Your adjustment request was received under protocol %s and is awaiting review.", event.Protocol)
		if err := notificationService.Notify(ctx, employeeID, notification.KindAdjustmentReceived, "Adjustment request received", message); err != nil {
			log.Error("notify adjustment request failed",
				zap.String("entry_id", event.EntryID),
				zap.String("protocol", event.Protocol),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit adjustment requested message failed", zap.Error(err))
			continue
		}

		log.Info("adjustment request notification delivered",
			zap.String("entry_id", event.EntryID),
			zap.String("protocol", event.Protocol),
		)
	}
}
