package app

import (
	"database/sql"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-timesheet/internal/audit"
	"go-timesheet/internal/auth"
	"go-timesheet/internal/catalog"
	"go-timesheet/internal/clt"
	"go-timesheet/internal/employee"
	"go-timesheet/internal/holiday"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/notification"
	"go-timesheet/internal/rbac"
	"go-timesheet/internal/report"
	"go-timesheet/internal/shared/counter"
	"go-timesheet/internal/timesheet"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	auditSink *audit.Sink,
) error {
	logger := zap.L()

	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	timesheetRepo := timesheet.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, logger)
	if err != nil {
		return err
	}

	// --- External collaborators ---
	whatsapp := notification.NewWhatsAppClient(notification.WhatsAppConfig{
		BaseURL: os.Getenv("WHATSAPP_API_URL"),
		Token:   os.Getenv("WHATSAPP_API_TOKEN"),
	}, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, employeeRepo)
	catalogService := catalog.NewService(catalogRepo, rdb, logger)
	employeeService := employee.NewService(employeeRepo, rdb, logger)
	holidayService := holiday.NewService(holidayRepo, rdb, logger)
	notificationService := notification.NewService(notificationRepo, employeeRepo, whatsapp, logger)
	timesheetService := timesheet.NewService(db, timesheetRepo, catalogService, counterRepo, outboxRepo, auditSink, logger)

	resolver := clt.NewTargetResolver(holidayService, logger)
	reportService := report.NewService(timesheetRepo, employeeRepo, resolver, notificationService, logger)

	importer := holiday.NewImporter(holiday.ImporterConfig{
		BaseURL: os.Getenv("HOLIDAY_API_URL"),
		Token:   os.Getenv("HOLIDAY_API_TOKEN"),
		Cities:  parseCities(os.Getenv("HOLIDAY_CITIES")),
	}, holidayService, logger)

	// --- Handlers ---
	auditHandler := audit.NewHandler(auditRepo)
	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	employeeHandler := employee.NewHandler(employeeService)
	healthHandler := report.NewHealthHandler(db, rdb, whatsapp)
	holidayHandler := holiday.NewHandler(holidayService, importer)
	notificationHandler := notification.NewHandler(notificationService)
	rbacHandler := rbac.NewHandler(rbacService)
	reportHandler := report.NewHandler(reportService)
	timesheetHandler := timesheet.NewHandler(timesheetService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		audit.RegisterRoutes(api, auditHandler, rbacService)
		auth.RegisterRoutes(api, authHandler, rbacService)
		catalog.RegisterRoutes(api, catalogHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
		report.RegisterRoutes(api, reportHandler, healthHandler, rbacService)
		timesheet.RegisterRoutes(api, timesheetHandler, rbacService, rdb)
	}

	return nil
}

// parseCities reads "Name/ST/IBGE" triples separated by commas, e.g.
// "Curitiba/PR/4106902,Sao Paulo/SP/3550308".
func parseCities(raw string) []holiday.City {
	if raw == "" {
		return nil
	}
	var cities []holiday.City
	for _, item := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(item), "/")
		if len(parts) != 3 {
			continue
		}
		cities = append(cities, holiday.City{Name: parts[0], State: parts[1], IBGECode: parts[2]})
	}
	return cities
}
