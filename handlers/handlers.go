package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"egov-portal/assistant"
	"egov-portal/config"
	"egov-portal/middleware"
	"egov-portal/models"
	"egov-portal/realtime"
	"egov-portal/revocation"
	"egov-portal/state"
	"egov-portal/utils"
)

// ErrorResponse represents a standardized error response
// Status: HTTP status code
// Error: Error message
// Details: Additional details about the error
// Timestamp: When the error occurred
type ErrorResponse struct {
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func sendError(w http.ResponseWriter, status int, err string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:    status,
		Error:     err,
		Details:   details,
		Timestamp: time.Now(),
	})
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeAndValidate reads a JSON body into req and runs struct validation,
// writing the 400 response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return false
	}
	return true
}

// session is the token issued for the profile currently signed in.
type session struct {
	mu        sync.Mutex
	jti       string
	expiresAt time.Time
}

func (s *session) set(claims *utils.Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jti = claims.ID
	s.expiresAt = claims.ExpiresAt.Time
}

func (s *session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jti = ""
	s.expiresAt = time.Time{}
}

// stale reports whether the tracked token can no longer be used.
func (s *session) stale(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jti == "" || !now.Before(s.expiresAt)
}

type Handlers struct {
	db        *gorm.DB
	config    *config.Config
	store     *state.Store
	revoked   revocation.Store
	assistant *assistant.Client
	hub       *realtime.Hub
	logger    *zap.Logger
	now       func() time.Time
	session   session
}

func NewHandlers(db *gorm.DB, cfg *config.Config, store *state.Store, revoked revocation.Store, ai *assistant.Client, hub *realtime.Hub, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		db:        db,
		config:    cfg,
		store:     store,
		revoked:   revoked,
		assistant: ai,
		hub:       hub,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	database := "up"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		status = "degraded"
		database = "down"
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"database":  database,
		"timestamp": time.Now(),
		"service":   "egov-portal",
		"version":   "1.0.0",
	})
}

func (h *Handlers) logAudit(claims *utils.Claims, action, resource, details string, r *http.Request) {
	audit := models.AuditLog{
		Action:    action,
		Resource:  resource,
		Details:   details,
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	if claims != nil {
		audit.ProfileID = claims.ProfileID
		audit.Role = models.Role(claims.Role)
	}
	if err := h.db.Create(&audit).Error; err != nil {
		h.logger.Error("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

// lastToast returns the newest toast message, used as error detail when the
// store rejects an action.
func lastToast(st state.State) string {
	if len(st.Toasts) == 0 {
		return ""
	}
	return st.Toasts[len(st.Toasts)-1].Message
}

func claimsOrReject(w http.ResponseWriter, r *http.Request) *utils.Claims {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
	}
	return claims
}
