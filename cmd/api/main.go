package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/adiletbaev/distribo-backend/api/routes"
	"github.com/adiletbaev/distribo-backend/internal/catalog"
	"github.com/adiletbaev/distribo-backend/internal/debts"
	"github.com/adiletbaev/distribo-backend/internal/defects"
	"github.com/adiletbaev/distribo-backend/internal/history"
	"github.com/adiletbaev/distribo-backend/internal/inventory"
	"github.com/adiletbaev/distribo-backend/internal/notifications"
	"github.com/adiletbaev/distribo-backend/internal/orders"
	"github.com/adiletbaev/distribo-backend/internal/reports"
	"github.com/adiletbaev/distribo-backend/pkg/config"
	"github.com/adiletbaev/distribo-backend/pkg/db"
	"github.com/adiletbaev/distribo-backend/pkg/logger"
	"github.com/adiletbaev/distribo-backend/pkg/migrate"
	"github.com/adiletbaev/distribo-backend/pkg/outbox"
	"github.com/adiletbaev/distribo-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	services := buildServices(logg, dbClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, services),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(logg *logger.Logger, dbClient *db.Client) routes.Services {
	conn := dbClient.DB()
	outboxSvc := outbox.NewService(outbox.NewRepository(conn), logg)

	inventorySvc, err := inventory.NewService(conn)
	requireService(logg, "inventory", err)

	historyRec, err := history.NewRecorder(conn)
	requireService(logg, "history", err)

	catalogSvc, err := catalog.NewService(conn)
	requireService(logg, "catalog", err)

	ordersRepo, err := orders.NewRepository(conn)
	requireService(logg, "orders repository", err)
	ordersSvc, err := orders.NewService(ordersRepo, dbClient, outboxSvc, inventorySvc, historyRec, catalogSvc)
	requireService(logg, "orders", err)

	debtsRepo, err := debts.NewRepository(conn)
	requireService(logg, "debts repository", err)
	debtsSvc, err := debts.NewService(debtsRepo, dbClient, outboxSvc, historyRec)
	requireService(logg, "debts", err)

	defectsRepo, err := defects.NewRepository(conn)
	requireService(logg, "defects repository", err)
	defectsSvc, err := defects.NewService(defectsRepo, dbClient, outboxSvc)
	requireService(logg, "defects", err)

	notificationsSvc, err := notifications.NewService(notifications.NewRepository(conn))
	requireService(logg, "notifications", err)

	reportsSvc, err := reports.NewService(conn)
	requireService(logg, "reports", err)

	return routes.Services{
		Orders:        ordersSvc,
		Debts:         debtsSvc,
		Defects:       defectsSvc,
		Inventory:     inventorySvc,
		History:       historyRec,
		Notifications: notificationsSvc,
		Reports:       reportsSvc,
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("failed to create %s service", name), err)
	os.Exit(1)
}
