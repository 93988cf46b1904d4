package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"harvesterbilling/auth"
	"harvesterbilling/handlers"
	"harvesterbilling/metrics"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Users         *handlers.UserHandler
	Fleet         *handlers.FleetHandler
	Bills         *handlers.BillHandler
	Reports       *handlers.ReportHandler
	Notifications *handlers.NotificationHandler
	Backup        *handlers.BackupHandler
	Tokens        *auth.Issuer
}

func SetupRoutes(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger)
	r.Use(handlers.RecoverWrapper)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/signup", h.Users.Signup)
	r.Post("/login", h.Users.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.Tokens.Middleware)

		r.Get("/settings", h.Fleet.GetSettings)
		r.Put("/settings", h.Fleet.UpdateSettings)

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", h.Fleet.ListVehicles)
			r.Post("/", h.Fleet.SaveVehicle)
			r.Put("/{id}", h.Fleet.SaveVehicle)
			r.Delete("/{id}", h.Fleet.DeleteVehicle)
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", h.Fleet.ListDrivers)
			r.Post("/", h.Fleet.SaveDriver)
			r.Put("/{id}", h.Fleet.SaveDriver)
			r.Delete("/{id}", h.Fleet.DeleteDriver)
			r.Post("/{id}/payments", h.Fleet.AddDriverPayment)
		})

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.Fleet.ListAgents)
			r.Post("/", h.Fleet.SaveAgent)
			r.Post("/ledger/toggle", h.Bills.ToggleCommission)
			r.Put("/{id}", h.Fleet.SaveAgent)
			r.Delete("/{id}", h.Fleet.DeleteAgent)
			r.Get("/{id}/ledger", h.Bills.Ledger)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.Fleet.ListExpenses)
			r.Post("/", h.Fleet.AddExpense)
			r.Delete("/{id}", h.Fleet.DeleteExpense)
		})

		r.Route("/bills", func(r chi.Router) {
			r.Get("/", h.Bills.List)
			r.Post("/", h.Bills.Save)
			r.Post("/preview", h.Bills.Preview)
			r.Get("/new-session", h.Bills.NewSession)
			r.Post("/share", h.Bills.ShareDraft)
			r.Get("/{id}", h.Bills.Get)
			r.Put("/{id}", h.Bills.Save)
			r.Delete("/{id}", h.Bills.Delete)
			r.Get("/{id}/share", h.Bills.Share)
			r.Get("/{id}/pdf", h.Bills.PDF)
			r.Get("/{id}/qr", h.Bills.QR)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notifications.List)
			r.Delete("/", h.Notifications.ClearAll)
			r.Post("/{id}/read", h.Notifications.MarkRead)
		})

		r.Get("/dashboard", h.Reports.Dashboard)
		r.Get("/reports/vehicles", h.Reports.Vehicles)
		r.Get("/reports/vehicles.xlsx", h.Reports.VehiclesXLSX)

		r.Route("/backup", func(r chi.Router) {
			r.Get("/export", h.Backup.Export)
			r.Get("/export/all", h.Backup.ExportAll)
			r.Post("/import", h.Backup.Import)
			r.Post("/restore", h.Backup.RestoreSnapshot)
		})

		r.Route("/cloud", func(r chi.Router) {
			r.Get("/", h.Backup.CloudStatus)
			r.Post("/connect", h.Backup.Connect)
			r.Delete("/connect", h.Backup.Disconnect)
			r.Post("/sync", h.Backup.Sync)
			r.Post("/restore", h.Backup.CloudRestore)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.ListUsers)
			r.Post("/", h.Users.CreateUser)
			r.Get("/{id}", h.Users.GetUser)
			r.Put("/{id}", h.Users.UpdateUser)
			r.Delete("/{id}", h.Users.DeleteUser)
		})
	})

	return r
}
