package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adiletbaev/distribo-backend/api/controllers"
	"github.com/adiletbaev/distribo-backend/api/middleware"
	"github.com/adiletbaev/distribo-backend/internal/debts"
	"github.com/adiletbaev/distribo-backend/internal/defects"
	"github.com/adiletbaev/distribo-backend/internal/history"
	"github.com/adiletbaev/distribo-backend/internal/inventory"
	"github.com/adiletbaev/distribo-backend/internal/notifications"
	"github.com/adiletbaev/distribo-backend/internal/orders"
	"github.com/adiletbaev/distribo-backend/internal/reports"
	"github.com/adiletbaev/distribo-backend/pkg/config"
	"github.com/adiletbaev/distribo-backend/pkg/db"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	"github.com/adiletbaev/distribo-backend/pkg/logger"
	"github.com/adiletbaev/distribo-backend/pkg/redis"
)

type Services struct {
	Orders        orders.Service
	Debts         debts.Service
	Defects       defects.Service
	Inventory     inventory.Service
	History       history.Recorder
	Notifications notifications.Service
	Reports       reports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	apiPolicy := middleware.NewRateLimitPolicy(
		"api",
		cfg.RateLimit.Window,
		int(cfg.RateLimit.Requests),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RateLimit(apiPolicy, redisClient, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(svcs.Orders, logg))
			r.Get("/{orderID}/history", controllers.OrderHistory(svcs.Orders, svcs.History, logg))
			r.Get("/{orderID}/debt", controllers.GetOutstandingDebt(svcs.Debts, logg))
			r.Get("/{orderID}/payments", controllers.ListPayments(svcs.Debts, logg))
			r.Post("/{orderID}/payments", controllers.PayDebt(svcs.Debts, logg))
			r.Post("/{orderID}/confirm", controllers.ConfirmOrder(svcs.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleStore, logg))
				r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
				r.Post("/{orderID}/cancel-items", controllers.CancelOrderItems(svcs.Orders, logg))
			})
		})

		r.Route("/v1/defects", func(r chi.Router) {
			r.Get("/", controllers.ListDefects(svcs.Defects, logg))
			r.Get("/{defectID}", controllers.GetDefect(svcs.Defects, logg))
			r.With(middleware.RequireRole(enums.UserRoleStore, logg)).
				Post("/", controllers.ReportDefect(svcs.Defects, logg))
		})

		r.Route("/v1/inventory", func(r chi.Router) {
			r.Get("/store", controllers.StoreInventoryLevels(svcs.Inventory, logg))
			r.Get("/partner", controllers.PartnerInventoryLevels(svcs.Inventory, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/v1/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Post("/{orderID}/approve", controllers.ApproveOrder(svcs.Orders, logg))
				r.Post("/{orderID}/reject", controllers.RejectOrder(svcs.Orders, logg))
				r.Post("/{orderID}/assign-partner", controllers.AssignPartner(svcs.Orders, logg))
			})
			r.Route("/defects", func(r chi.Router) {
				r.Post("/{defectID}/decision", controllers.DecideDefect(svcs.Defects, logg))
			})
			r.Route("/reports", func(r chi.Router) {
				r.Get("/orders", controllers.OrdersReport(svcs.Reports, logg))
				r.Get("/debts", controllers.DebtsReport(svcs.Reports, logg))
				r.Get("/defects", controllers.DefectsReport(svcs.Reports, logg))
			})
		})
	})

	return r
}
