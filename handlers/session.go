package handlers

import (
	"errors"
	"net/http"

	"egov-portal/models"
	"egov-portal/state"
	"egov-portal/views"
)

type sessionResponse struct {
	Authenticated bool                 `json:"authenticated"`
	User          *models.SessionUser  `json:"user,omitempty"`
	Profile       *models.Profile      `json:"profile,omitempty"`
	Screen        views.Screen         `json:"screen"`
	Theme         models.Theme         `json:"theme"`
	Language      models.Language      `json:"language"`
	Accessibility models.Accessibility `json:"accessibility"`
	Toasts        []models.Toast       `json:"toasts"`
}

func newSessionResponse(st state.State) sessionResponse {
	return sessionResponse{
		Authenticated: st.Authenticated(),
		User:          st.User,
		Profile:       st.Profile,
		Screen:        views.Resolve(st),
		Theme:         st.Theme,
		Language:      st.Language,
		Accessibility: st.Accessibility,
		Toasts:        st.Toasts,
	}
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, newSessionResponse(h.store.State()))
}

// GetView reports the screen the portal currently renders.
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, views.Resolve(h.store.State()))
}

func (h *Handlers) SetView(w http.ResponseWriter, r *http.Request) {
	var req models.ViewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	view := state.View(req.View)
	if !views.Known(view) {
		sendError(w, http.StatusBadRequest, "Unknown view", req.View)
		return
	}

	st := h.store.Dispatch(state.SetView{View: view})
	sendJSON(w, http.StatusOK, views.Resolve(st))
}

func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req models.PreferencesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.Theme != nil {
		h.store.Dispatch(state.SetTheme{Theme: *req.Theme})
	}
	if req.Language != nil {
		h.store.Dispatch(state.SetLanguage{Language: *req.Language})
	}
	if req.Accessibility != nil {
		h.store.Dispatch(state.SetAccessibility{Accessibility: *req.Accessibility})
	}

	st := h.store.State()
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"theme":         st.Theme,
		"language":      st.Language,
		"accessibility": st.Accessibility,
	})
}

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := views.Dashboard(h.store.State())
	if err != nil {
		if errors.Is(err, views.ErrNoProfile) {
			sendError(w, http.StatusUnauthorized, "Not signed in", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Failed to build dashboard", nil)
		return
	}
	sendJSON(w, http.StatusOK, dashboard)
}

func (h *Handlers) DismissToast(w http.ResponseWriter, r *http.Request) {
	id := muxVar(r, "id")
	h.store.Dispatch(state.RemoveToast{ID: id})
	w.WriteHeader(http.StatusNoContent)
}
