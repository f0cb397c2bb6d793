package app

import (
	"context"
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-timesheet/internal/audit"
	"go-timesheet/internal/bootstrap"
	"go-timesheet/internal/middleware"
	"go-timesheet/internal/shared/connection"
)

// Resources holds the process-wide handles BuildApp opened, so the
// entrypoint can close them on the way out.
type Resources struct {
	DB        *sql.DB
	GormDB    *gorm.DB
	Redis     *redis.Client
	AuditSink *audit.Sink
}

func (r *Resources) Close() {
	if r.AuditSink != nil {
		r.AuditSink.Close()
	}
	if r.Redis != nil {
		r.Redis.Close()
	}
	if r.DB != nil {
		r.DB.Close()
	}
}

// AuditLogger adapts the async audit sink to the server lifecycle
// hook.
func (r *Resources) AuditLogger() bootstrap.AuditLogger {
	return sinkAuditLogger{sink: r.AuditSink}
}

type sinkAuditLogger struct {
	sink *audit.Sink
}

func (l sinkAuditLogger) Log(_ context.Context, entry bootstrap.AuditLog) {
	l.sink.Record(nil, entry.Action, "Server", "", entry.Message, "")
}

func connectDatabase(logger *zap.Logger) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
		logger,
	)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

// BuildApp connects the infrastructure and mounts every module on the
// router.
func BuildApp(router *gin.Engine) (*Resources, error) {
	logger := zap.L()

	gormDB, sqlDB, err := connectDatabase(logger)
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5, logger)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	auditSink := audit.NewSink(audit.NewRepository(gormDB), logger)

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(logger))

	if err := registerModules(router, sqlDB, gormDB, rdb, auditSink); err != nil {
		auditSink.Close()
		rdb.Close()
		sqlDB.Close()
		return nil, err
	}

	return &Resources{DB: sqlDB, GormDB: gormDB, Redis: rdb, AuditSink: auditSink}, nil
}
