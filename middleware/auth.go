package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"egov-portal/models"
	"egov-portal/revocation"
	"egov-portal/state"
	"egov-portal/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// SessionSource exposes the portal's current state.
type SessionSource interface {
	State() state.State
}

type errorBody struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Status:    status,
		Error:     msg,
		Details:   details,
		Timestamp: time.Now(),
	})
}

// bearerToken reads the Authorization header. Websocket upgrades may pass the
// token as ?token= since browsers cannot set headers on them.
func bearerToken(r *http.Request) (string, string) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", "Invalid authorization header format"
		}
		return parts[1], ""
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, ""
		}
	}
	return "", "Authorization header required"
}

// JWTAuth accepts a request only when its token is valid, not revoked, and
// belongs to the profile currently signed in to the portal.
func JWTAuth(sessions SessionSource, revoked revocation.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, problem := bearerToken(r)
			if problem != "" {
				logger.Debug("missing or malformed token", zap.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, problem, "")
				return
			}

			claims, err := utils.ValidateToken(token)
			if err != nil {
				logger.Debug("token validation failed", zap.String("path", r.URL.Path), zap.Error(err))
				writeError(w, http.StatusUnauthorized, "Invalid token", "")
				return
			}

			isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				logger.Error("revocation lookup failed", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "Session store unavailable", "")
				return
			}
			if isRevoked {
				writeError(w, http.StatusUnauthorized, "Session has been logged out", "")
				return
			}

			st := sessions.State()
			if st.Profile == nil || st.Profile.ID != claims.ProfileID {
				writeError(w, http.StatusUnauthorized, "Session is no longer active", "")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleAuth limits a route to the given roles. It must run after JWTAuth.
func RoleAuth(logger *zap.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r)
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized - No user context", "")
				return
			}
			if !slices.Contains(roles, models.Role(claims.Role)) {
				logger.Info("role denied",
					zap.String("profile_id", claims.ProfileID),
					zap.String("role", claims.Role),
					zap.String("path", r.URL.Path),
				)
				writeError(w, http.StatusForbidden, "Access denied", "This endpoint is not available for role "+claims.Role)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetUserFromContext(r *http.Request) *utils.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*utils.Claims); ok {
		return claims
	}
	return nil
}
