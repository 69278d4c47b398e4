package handlers

import (
	"fmt"
	"net/http"

	"egov-portal/models"
	"egov-portal/state"
	"egov-portal/utils"
)

func (h *Handlers) ListServices(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, h.store.State().Services)
}

func (h *Handlers) UpsertService(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}

	var svc models.Service
	if !decodeAndValidate(w, r, &svc) {
		return
	}
	if err := utils.CheckSchema(svc.FormSchema); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid form schema", err.Error())
		return
	}
	svc.Name = utils.SanitizeString(svc.Name)

	_, existed := h.store.State().FindService(svc.ID)
	st := h.store.Dispatch(state.UpsertService{Service: svc})
	stored, _ := st.FindService(svc.ID)

	status := http.StatusOK
	action := "UPDATE"
	if !existed {
		status = http.StatusCreated
		action = "CREATE"
	}
	h.logAudit(claims, action, "SERVICE", fmt.Sprintf("Service %s (%s)", stored.ID, stored.Name), r)
	sendJSON(w, status, stored)
}
