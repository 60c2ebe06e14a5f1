package rest

import (
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/hours-portal/internal/auth"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/settings"
	"github.com/frahmantamala/hours-portal/internal/submission"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
	"github.com/frahmantamala/hours-portal/internal/transport/middleware"
	"github.com/frahmantamala/hours-portal/internal/transport/swagger"
)

type Handlers struct {
	Auth       *auth.Handler
	Employee   *employee.Handler
	Supervisor *supervisor.Handler
	TimeSheet  *timesheet.Handler
	Submission *submission.Handler
	Settings   *settings.Handler
	Health     *HealthHandler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get(swagger.SpecPath, swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", h.Health.pingHandler)
		r.Get("/health", h.Health.healthCheckHandler)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/logout", h.Auth.Logout)
			pr.Get("/me", h.Auth.Me)

			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", h.Employee.GetEmployees)
				er.Post("/", h.Employee.CreateEmployee)
				er.Put("/{id}", h.Employee.UpdateEmployee)
				er.Delete("/{id}", h.Employee.DeleteEmployee)
			})

			pr.Route("/timesheets", func(tr chi.Router) {
				tr.Get("/", h.TimeSheet.GetWeek)
				tr.Get("/{week}", h.TimeSheet.GetWeek)
				tr.Put("/{week}/entries", h.TimeSheet.PutEntry)
				tr.Post("/{week}/submit", h.Submission.PostSubmit)
				tr.Get("/{week}/export.xlsx", h.Submission.GetExport)
			})

			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(middleware.RequireAdmin(logger))

				ar.Get("/supervisors", h.Supervisor.GetSupervisors)
				ar.Post("/supervisors", h.Supervisor.CreateSupervisor)
				ar.Put("/supervisors/{id}", h.Supervisor.UpdateSupervisor)
				ar.Delete("/supervisors/{id}", h.Supervisor.DeleteSupervisor)

				ar.Get("/settings/endpoint", h.Settings.GetEndpoint)
				ar.Put("/settings/endpoint", h.Settings.PutEndpoint)
			})
		})
	})
}
