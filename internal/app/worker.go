package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"go-timesheet/internal/audit"
	"go-timesheet/internal/catalog"
	"go-timesheet/internal/clt"
	"go-timesheet/internal/employee"
	"go-timesheet/internal/holiday"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/messaging/kafka/producer"
	"go-timesheet/internal/notification"
	"go-timesheet/internal/report"
	"go-timesheet/internal/shared/connection"
	"go-timesheet/internal/shared/counter"
	"go-timesheet/internal/timesheet"
)

const (
	autoApproveInterval = 5 * time.Minute
	defaultSweepHour    = 20
)

// RunWorker hosts the background jobs: the outbox relay, the
// auto-approval pass and the daily pendency sweep.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, sqlDB, err := connectDatabase(logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5, logger)
	if err != nil {
		return err
	}
	defer rdb.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5, logger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	auditSink := audit.NewSink(audit.NewRepository(gormDB), logger)
	defer auditSink.Close()

	// Service wiring mirrors the API, minus the HTTP surface.
	catalogService := catalog.NewService(catalog.NewRepository(gormDB), rdb, logger)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayService := holiday.NewService(holiday.NewRepository(gormDB), rdb, logger)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	timesheetRepo := timesheet.NewRepository(gormDB)

	whatsapp := notification.NewWhatsAppClient(notification.WhatsAppConfig{
		BaseURL: os.Getenv("WHATSAPP_API_URL"),
		Token:   os.Getenv("WHATSAPP_API_TOKEN"),
	}, logger)
	notificationService := notification.NewService(notification.NewRepository(gormDB), employeeRepo, whatsapp, logger)

	timesheetService := timesheet.NewService(sqlDB, timesheetRepo, catalogService, counterRepo, outboxRepo, auditSink, logger)
	resolver := clt.NewTargetResolver(holidayService, logger)
	reportService := report.NewService(timesheetRepo, employeeRepo, resolver, notificationService, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, 3*time.Second)
	go runAutoApproval(ctx, timesheetService, logger)
	go runPendencySweep(ctx, reportService, sweepHour(), logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func sweepHour() int {
	if raw := os.Getenv("PENDENCY_SWEEP_HOUR"); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return defaultSweepHour
}

func runAutoApproval(ctx context.Context, svc timesheet.Service, logger *zap.Logger) {
	log := logger.Named("auto_approval")
	ticker := time.NewTicker(autoApproveInterval)
	defer ticker.Stop()

	log.Info("auto approval job started", zap.Duration("interval", autoApproveInterval))
	for {
		select {
		case <-ctx.Done():
			log.Info("auto approval job stopped")
			return
		case now := <-ticker.C:
			approved, err := svc.AutoApprove(ctx, now)
			if err != nil {
				log.Error("auto approval pass failed", zap.Error(err))
				continue
			}
			if approved > 0 {
				log.Info("entries auto approved", zap.Int("count", approved))
			}
		}
	}
}

// runPendencySweep fires once per day at the configured hour, covering
// the current date.
func runPendencySweep(ctx context.Context, svc report.Service, hour int, logger *zap.Logger) {
	log := logger.Named("pendency_sweep")
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var lastRun string
	log.Info("pendency sweep scheduled", zap.Int("hour", hour))
	for {
		select {
		case <-ctx.Done():
			log.Info("pendency sweep stopped")
			return
		case now := <-ticker.C:
			day := now.Format("2006-01-02")
			if now.Hour() != hour || lastRun == day {
				continue
			}
			result, err := svc.SweepPendencies(ctx, now)
			if err != nil {
				log.Error("pendency sweep failed", zap.Error(err))
				continue
			}
			lastRun = day
			log.Info("pendency sweep finished",
				zap.Int("absent", result.Absent),
				zap.Int("incomplete", result.Incomplete),
				zap.Int("skipped", result.Skipped))
		}
	}
}
