package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/memorial-api/internal/auth"
	"github.com/gdg-garage/memorial-api/internal/config"
	"github.com/gdg-garage/memorial-api/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func RegisterRoutes(r *chi.Mux, cfg *config.Config, admin *auth.AdminAuth, attendanceHandler *AttendanceHandler, memorialHandler *MemorialHandler) huma.API {
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.CORSOrigin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-API-KEY"},
			AllowCredentials: true,
		}))
	}

	// Initialize Huma API
	config := huma.DefaultConfig("Memorial API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:   "http",
			Scheme: "bearer",
		},
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.SessionCookie,
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-login",
		Method:      http.MethodPost,
		Path:        "/admin/session",
		Summary:     "Exchange the admin token for a session cookie",
	}, admin.HandleLogin)

	huma.Register(api, huma.Operation{
		OperationID: "get-memorial",
		Method:      http.MethodGet,
		Path:        "/memorials/{slug}",
		Summary:     "Get a memorial",
	}, memorialHandler.HandleGet)

	huma.Register(api, huma.Operation{
		OperationID:   "register-attendance",
		Method:        http.MethodPost,
		Path:          "/memorials/{slug}/attendance",
		Summary:       "RSVP to a memorial",
		DefaultStatus: http.StatusCreated,
	}, attendanceHandler.HandleRegister)

	huma.Register(api, huma.Operation{
		OperationID: "attendance-summary",
		Method:      http.MethodGet,
		Path:        "/memorials/{slug}/attendance/summary",
		Summary:     "Public head count",
	}, attendanceHandler.HandleSummary)

	// Admin routes
	adminOnly := func(op huma.Operation) huma.Operation {
		op.Security = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}
		op.Middlewares = huma.Middlewares{admin.Middleware(api)}
		op.Tags = append(op.Tags, "admin")
		return op
	}

	huma.Register(api, adminOnly(huma.Operation{
		OperationID:   "create-memorial",
		Method:        http.MethodPost,
		Path:          "/memorials",
		Summary:       "Create a memorial",
		DefaultStatus: http.StatusCreated,
	}), memorialHandler.HandleCreate)

	huma.Register(api, adminOnly(huma.Operation{
		OperationID: "set-memorial-capacity",
		Method:      http.MethodPut,
		Path:        "/memorials/{slug}/capacity",
		Summary:     "Set or clear the capacity of a memorial",
	}), memorialHandler.HandleSetCapacity)

	huma.Register(api, adminOnly(huma.Operation{
		OperationID: "list-attendance",
		Method:      http.MethodGet,
		Path:        "/memorials/{slug}/attendance",
		Summary:     "List RSVPs, newest first",
	}), attendanceHandler.HandleList)

	huma.Register(api, adminOnly(huma.Operation{
		OperationID: "export-attendance-csv",
		Method:      http.MethodGet,
		Path:        "/memorials/{slug}/attendance.csv",
		Summary:     "Download RSVPs as CSV, oldest first",
	}), attendanceHandler.HandleExportCSV)

	huma.Register(api, adminOnly(huma.Operation{
		OperationID: "reconcile-attendance",
		Method:      http.MethodPost,
		Path:        "/memorials/{slug}/attendance/reconcile",
		Summary:     "Promote waitlisted RSVPs into free capacity",
	}), attendanceHandler.HandleReconcile)

	return api
}
