package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-timesheet/internal/employee"
	"go-timesheet/internal/events"
	"go-timesheet/internal/messaging/kafka/consumer"
	"go-timesheet/internal/notification"
)

// RunConsumer subscribes to the timesheet event topics and fans them
// out as employee notifications.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, sqlDB, err := connectDatabase(logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	whatsapp := notification.NewWhatsAppClient(notification.WhatsAppConfig{
		BaseURL: os.Getenv("WHATSAPP_API_URL"),
		Token:   os.Getenv("WHATSAPP_API_TOKEN"),
	}, logger)
	notificationService := notification.NewService(
		notification.NewRepository(gormDB),
		employee.NewRepository(gormDB),
		whatsapp,
		logger,
	)

	newReader := func(topic string) *kafkago.Reader {
		return kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{kafkaBroker},
			Topic:          topic,
			GroupID:        "go-timesheet-notifications",
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
	}

	flaggedReader := newReader(events.EntryFlaggedTopic)
	defer flaggedReader.Close()
	reviewedReader := newReader(events.EntryReviewedTopic)
	defer reviewedReader.Close()
	adjustmentReader := newReader(events.AdjustmentRequestedTopic)
	defer adjustmentReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEntryFlagged(ctx, flaggedReader, notificationService, logger)
	go consumer.ConsumeEntryReviewed(ctx, reviewedReader, notificationService, logger)
	go consumer.ConsumeAdjustmentRequested(ctx, adjustmentReader, notificationService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
