/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/punches           Punch recording
  /api/employees/*       Employee admin + per-employee queries
  /api/payroll/*         Pay preview and report
  /api/geofences/*       Zone admin
  /api/overtime-rule     Overtime policy
  /api/deductions        Deduction records
  /api/loans             Loan advances

SECURITY NOTE:
  No authentication middleware currently. The caller's employee scope is
  assumed to be enforced upstream.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Punch routes
		r.Post("/punches", h.RecordPunch)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}/punch", h.CurrentOpenPunch)
			r.Get("/{id}/hours", h.ComputeHours)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/preview", h.PreviewPay)
			r.Post("/report", h.RunReport)
		})

		// Geofence routes
		r.Route("/geofences", func(r chi.Router) {
			r.Get("/", h.ListGeofences)
			r.Post("/", h.CreateGeofence)
			r.Post("/assignments", h.AssignGeofence)
		})

		// Policy routes
		r.Post("/overtime-rule", h.SaveOvertimeRule)
		r.Post("/deductions", h.SaveDeduction)
		r.Post("/loans", h.SaveLoan)
	})

	return r
}
