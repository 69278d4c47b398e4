package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"egov-portal/middleware"
	"egov-portal/models"
)

func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// NewRouter wires every API route. rl may be nil to disable rate limiting.
func NewRouter(h *Handlers, rl *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RequestLogger(h.logger))
	if rl != nil {
		r.Use(rl.Middleware)
	}

	// Public routes
	r.HandleFunc("/api/login", h.Login).Methods("POST")
	r.HandleFunc("/api/signup", h.Signup).Methods("POST")
	r.HandleFunc("/api/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/api/services", h.ListServices).Methods("GET")
	r.HandleFunc("/api/view", h.GetView).Methods("GET")
	r.HandleFunc("/api/view", h.SetView).Methods("PUT")
	r.HandleFunc("/api/notifications/public", h.PublicNotifications).Methods("GET")
	r.HandleFunc("/api/assistant/speech-error", h.SpeechError).Methods("POST")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTAuth(h.store, h.revoked, h.logger))

	protected.HandleFunc("/logout", h.Logout).Methods("POST")
	protected.HandleFunc("/session", h.GetSession).Methods("GET")
	protected.HandleFunc("/preferences", h.UpdatePreferences).Methods("PUT")
	protected.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	protected.HandleFunc("/notifications", h.ListNotifications).Methods("GET")
	protected.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods("POST")
	protected.HandleFunc("/toasts/{id}", h.DismissToast).Methods("DELETE")
	protected.HandleFunc("/assistant/chat", h.Chat).Methods("POST")
	protected.HandleFunc("/ws", h.ServeWS).Methods("GET")

	// Citizen routes
	citizen := middleware.RoleAuth(h.logger, models.RoleCitizen)
	protected.Handle("/applications", citizen(http.HandlerFunc(h.SubmitApplication))).Methods("POST")
	protected.Handle("/applications/{id}/pay", citizen(http.HandlerFunc(h.PayApplication))).Methods("POST")
	protected.Handle("/documents", citizen(http.HandlerFunc(h.UploadDocument))).Methods("POST")
	protected.Handle("/qr", citizen(http.HandlerFunc(h.GetQR))).Methods("GET")
	protected.Handle("/qr.png", citizen(http.HandlerFunc(h.GetQRImage))).Methods("GET")

	// Staff routes
	adminRoutes := protected.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.RoleAuth(h.logger, models.RoleAdmin, models.RoleSuperAdmin))
	adminRoutes.HandleFunc("/applications/{id}/{action:process|approve|reject|request-info}", h.ApplicationAction).Methods("POST")
	adminRoutes.HandleFunc("/documents/{id}/{action:verify|reject}", h.DocumentAction).Methods("POST")
	adminRoutes.HandleFunc("/services", h.UpsertService).Methods("PUT")
	adminRoutes.HandleFunc("/notifications", h.PublishNotification).Methods("POST")
	adminRoutes.HandleFunc("/audit-logs", h.GetAuditLogs).Methods("GET")

	// Kiosk routes
	kioskRoutes := protected.PathPrefix("/kiosk").Subrouter()
	kioskRoutes.Use(middleware.RoleAuth(h.logger, models.RoleKiosk, models.RoleAdmin, models.RoleSuperAdmin))
	kioskRoutes.HandleFunc("/queue", h.GetQueue).Methods("GET")
	kioskRoutes.HandleFunc("/call", h.CallToken).Methods("POST")

	return r
}
