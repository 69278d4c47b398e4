package handlers

import (
	"net/http"

	"egov-portal/models"
	"egov-portal/state"
)

func (h *Handlers) PublicNotifications(w http.ResponseWriter, r *http.Request) {
	st := h.store.State()
	out := make([]models.Notification, 0, len(st.Notifications))
	for _, n := range st.Notifications {
		if n.Visibility == models.VisibilityPublic {
			out = append(out, n)
		}
	}
	sendJSON(w, http.StatusOK, out)
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.store.State().VisibleNotifications())
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}
	id := muxVar(r, "id")

	visible := false
	for _, n := range h.store.State().VisibleNotifications() {
		if n.ID == id {
			visible = true
			break
		}
	}
	if !visible {
		sendError(w, http.StatusNotFound, "Notification not found", nil)
		return
	}

	st := h.store.Dispatch(state.MarkNotificationRead{NotificationID: id})
	for _, n := range st.Notifications {
		if n.ID == id {
			sendJSON(w, http.StatusOK, n)
			return
		}
	}
	sendError(w, http.StatusNotFound, "Notification not found", nil)
}
