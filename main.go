package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	billingapp "condo-billing/internal/billing/application"
	billingrepo "condo-billing/internal/billing/infrastructure/postgres"
	"condo-billing/internal/observability/metrics"
	remindersapp "condo-billing/internal/reminders/application"
	remindersinterfaces "condo-billing/internal/reminders/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)

	associationRepo := billingrepo.NewAssociationRepository(db)
	unitRepo := billingrepo.NewUnitRepository(db)
	expenseRepo := billingrepo.NewExpenseRepository(db)
	readingRepo := billingrepo.NewMeterReadingRepository(db)
	billRepo := billingrepo.NewBillRepository(db)
	paymentRepo := billingrepo.NewPaymentRepository(db)
	fundRepo := billingrepo.NewFundRepository(db)
	reminderLogRepo := billingrepo.NewReminderLogRepository(db)

	billRunService, err := billingapp.NewBillRunService(
		associationRepo,
		unitRepo,
		expenseRepo,
		readingRepo,
		billRepo,
		paymentRepo,
		fundRepo,
		billingapp.SystemClock{},
	)
	if err != nil {
		logger.Fatalf("bill run service error: %v", err)
	}

	remindersCfg, err := remindersapp.LoadConfig()
	if err != nil {
		logger.Fatalf("reminders config error: %v", err)
	}
	reminderService, err := remindersapp.NewReminderService(
		associationRepo,
		billRepo,
		paymentRepo,
		reminderLogRepo,
		remindersinterfaces.NewLoggingNotifier(logger),
		remindersapp.SystemClock{},
		remindersCfg.Schedule(),
	)
	if err != nil {
		logger.Fatalf("reminder service error: %v", err)
	}

	billingScheduler := billingapp.NewScheduler(billRunService, cfg.Associations, cfg.BillingRunDay, cfg.BillingRunAt, logger)
	go billingScheduler.Start(context.Background())

	reminderScheduler := remindersapp.NewScheduler(reminderService, reminderAssociations(remindersCfg, cfg), remindersCfg.DailyAt, logger)
	go reminderScheduler.Start(context.Background())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(http.ListenAndServe(cfg.HTTPAddr, mux))
}

type config struct {
	DatabaseURL   string
	HTTPAddr      string
	Associations  []string
	BillingRunDay int
	BillingRunAt  string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:   getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
		Associations:  splitCSV(getenvDefault("BILLING_ASSOCIATIONS", "")),
		BillingRunDay: getenvIntDefault("BILLING_RUN_DAY", 1),
		BillingRunAt:  getenvDefault("BILLING_RUN_AT", "03:00"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	return cfg
}

func reminderAssociations(remindersCfg remindersapp.Config, cfg config) []string {
	if len(remindersCfg.Associations) > 0 {
		return remindersCfg.Associations
	}
	return cfg.Associations
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
