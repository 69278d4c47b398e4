package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"egov-portal/models"
	"egov-portal/state"
	"egov-portal/utils"
)

func (h *Handlers) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}

	var req models.SubmitApplicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	svc, ok := h.store.State().FindService(req.ServiceID)
	if !ok {
		sendError(w, http.StatusNotFound, "Service not found", req.ServiceID)
		return
	}
	problems, err := utils.ValidateForm(svc.FormSchema, req.FormData)
	if err != nil {
		h.logger.Error("service form schema is unusable", zap.String("service_id", svc.ID), zap.Error(err))
		sendError(w, http.StatusInternalServerError, "Failed to validate form", nil)
		return
	}
	if len(problems) > 0 {
		sendError(w, http.StatusBadRequest, "Form validation failed", problems)
		return
	}

	id := h.store.NewID()
	st := h.store.Dispatch(state.SubmitApplication{ID: id, ServiceID: svc.ID, FormData: req.FormData})
	app, ok := st.FindApplication(id)
	if !ok {
		sendError(w, http.StatusConflict, "Application was not created", lastToast(st))
		return
	}

	h.logAudit(claims, "CREATE", "APPLICATION", fmt.Sprintf("Application %s for %s", app.ID, svc.ID), r)
	sendJSON(w, http.StatusCreated, app)
}

func (h *Handlers) PayApplication(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}
	id := muxVar(r, "id")

	var req models.PaymentRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
	}
	success := req.Success == nil || *req.Success

	app, ok := h.store.State().FindApplication(id)
	if !ok || app.UserID != claims.ProfileID {
		sendError(w, http.StatusNotFound, "Application not found", nil)
		return
	}
	if app.Status != models.StatusPendingPayment {
		sendError(w, http.StatusConflict, "Application is not awaiting payment", app.Status)
		return
	}

	prev, st, err := h.store.DispatchAfter(r.Context(), h.config.SimulatedDelay, state.CompletePayment{
		ApplicationID: id,
		Success:       success,
	})
	if err != nil {
		h.logger.Info("payment abandoned", zap.String("application_id", id), zap.Error(err))
		sendError(w, http.StatusRequestTimeout, "Payment was cancelled", nil)
		return
	}

	// Another payment for the same application may have landed during the delay.
	if before, _ := prev.FindApplication(id); before.Status != models.StatusPendingPayment {
		sendError(w, http.StatusConflict, "Application is not awaiting payment", before.Status)
		return
	}

	app, _ = st.FindApplication(id)
	if app.PaymentStatus != models.PaymentPaid {
		h.logAudit(claims, "PAYMENT_FAILED", "APPLICATION", fmt.Sprintf("Payment for %s failed", id), r)
		sendError(w, http.StatusPaymentRequired, "Payment failed", lastToast(st))
		return
	}

	h.logAudit(claims, "PAYMENT", "APPLICATION", fmt.Sprintf("Application %s paid, token %s", id, app.Token), r)
	sendJSON(w, http.StatusOK, app)
}
