package handlers

import (
	"net/http"

	"egov-portal/models"
	"egov-portal/state"
	"egov-portal/views"
)

func (h *Handlers) GetQueue(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, views.Kiosk(h.store.State()))
}

// CallToken moves the Approved application holding the token to Called.
func (h *Handlers) CallToken(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}

	var req models.CallTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st := h.store.State()
	var holders []models.Application
	for _, app := range st.Applications {
		if app.Status == models.StatusApproved && app.Token == req.Token {
			holders = append(holders, app)
		}
	}
	switch {
	case len(holders) == 0:
		sendError(w, http.StatusNotFound, "No approved application holds this token", req.Token)
		return
	case len(holders) > 1:
		sendError(w, http.StatusConflict, "Token is held by more than one application", req.Token)
		return
	}
	if outsideOffice(st, holders[0].OfficeID) {
		sendError(w, http.StatusForbidden, "Token belongs to another office", nil)
		return
	}

	next := h.store.Dispatch(state.CallNextToken{Token: req.Token})
	app, _ := next.FindApplication(holders[0].ID)
	if app.Status != models.StatusCalled {
		sendError(w, http.StatusConflict, "Token could not be called", app.Status)
		return
	}

	h.logAudit(claims, "CALL", "QUEUE", "Called token "+req.Token, r)
	sendJSON(w, http.StatusOK, app)
}
