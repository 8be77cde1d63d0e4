package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/middleware"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	timeEntryHandler TimeEntryHandler,
	shiftHandler ShiftHandler,
	latenessHandler LatenessHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftwise-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/time-entries", func(r chi.Router) {
				r.Post("/clock-in", timeEntryHandler.ClockIn)
				r.Post("/break", timeEntryHandler.StartBreak)
				r.Post("/resume", timeEntryHandler.ResumeWork)
				r.Post("/clock-out", timeEntryHandler.ClockOut)
				r.Get("/day-status", timeEntryHandler.DayStatus)
				r.Get("/{id}", timeEntryHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/force-reset", timeEntryHandler.ForceReset)
					r.Post("/manual", timeEntryHandler.ManualEntry)
					r.Delete("/{id}", timeEntryHandler.Delete)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.List)
				r.Get("/match", shiftHandler.Match)
				r.Get("/{id}", shiftHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", shiftHandler.Create)
					r.Post("/{id}/cancel", shiftHandler.Cancel)
					r.Delete("/{id}", shiftHandler.Delete)
				})
			})

			r.Route("/lateness", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", latenessHandler.List)
				r.Post("/{id}/excuse", latenessHandler.Excuse)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/lateness", reportHandler.Lateness)
				r.Get("/overtime", reportHandler.Overtime)
				r.Get("/absence", reportHandler.Absence)
			})
		})
	})
	return r
}
