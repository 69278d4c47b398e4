package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"egov-portal/models"
	"egov-portal/state"
	"egov-portal/utils"
)

// releaseStaleSession signs out a profile whose token has expired or was
// never issued through the API, so a new login is not refused.
func (h *Handlers) releaseStaleSession() {
	if !h.store.State().Authenticated() || !h.session.stale(h.now()) {
		return
	}
	h.logger.Info("releasing stale session")
	h.store.Dispatch(state.Logout{})
}

func (h *Handlers) issueToken(w http.ResponseWriter, profile models.Profile) (string, bool) {
	token, err := utils.GenerateToken(profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		h.logger.Error("failed to generate token", zap.String("profile_id", profile.ID), zap.Error(err))
		sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return "", false
	}
	claims, err := utils.ValidateToken(token)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return "", false
	}
	h.session.set(claims)
	return token, true
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.releaseStaleSession()
	before := h.store.State()

	st := h.store.Dispatch(state.Login{Email: req.Email, Role: req.Role})
	if st.Profile == nil || st.Profile.Role != req.Role || !strings.EqualFold(st.Profile.Email, req.Email) {
		if _, known := before.FindProfile(req.Email, req.Role); known && before.Profile != nil {
			sendError(w, http.StatusConflict, "Another profile is signed in", lastToast(st))
			return
		}
		h.logger.Info("login attempt without matching profile", zap.String("email", req.Email), zap.String("role", string(req.Role)))
		sendError(w, http.StatusUnauthorized, "Invalid credentials", lastToast(st))
		return
	}

	token, ok := h.issueToken(w, *st.Profile)
	if !ok {
		return
	}
	h.logAudit(&utils.Claims{ProfileID: st.Profile.ID, Role: string(st.Profile.Role)}, "LOGIN", "AUTH",
		fmt.Sprintf("%s logged in as %s", st.Profile.Email, st.Profile.Role), r)

	sendJSON(w, http.StatusOK, models.LoginResponse{
		Token:   token,
		Profile: *st.Profile,
		View:    string(st.View),
	})
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Phone != "" && !utils.ValidatePhone(req.Phone) {
		sendError(w, http.StatusBadRequest, "Validation failed", map[string]string{"phone": "Invalid phone number"})
		return
	}

	h.releaseStaleSession()
	before := h.store.State()
	if before.Profile != nil {
		sendError(w, http.StatusConflict, "Another profile is signed in", nil)
		return
	}

	st := h.store.Dispatch(state.Signup{
		Name:  utils.SanitizeString(req.Name),
		Email: utils.SanitizeString(req.Email),
		Phone: req.Phone,
	})
	if st.Profile == nil {
		sendError(w, http.StatusConflict, "User already exists", lastToast(st))
		return
	}

	token, ok := h.issueToken(w, *st.Profile)
	if !ok {
		return
	}
	h.logAudit(&utils.Claims{ProfileID: st.Profile.ID, Role: string(st.Profile.Role)}, "CREATE", "PROFILE",
		"Citizen profile created", r)

	sendJSON(w, http.StatusCreated, models.LoginResponse{
		Token:   token,
		Profile: *st.Profile,
		View:    string(st.View),
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}

	if ttl := claims.Remaining(h.now()); ttl > 0 {
		if err := h.revoked.Revoke(r.Context(), claims.ID, ttl); err != nil {
			h.logger.Error("failed to revoke token", zap.String("profile_id", claims.ProfileID), zap.Error(err))
			sendError(w, http.StatusServiceUnavailable, "Failed to end session", nil)
			return
		}
	}
	h.store.Dispatch(state.Logout{})
	h.session.clear()
	h.logAudit(claims, "LOGOUT", "AUTH", "Profile logged out", r)

	sendJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
