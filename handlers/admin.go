package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"egov-portal/models"
	"egov-portal/state"
	"egov-portal/utils"
)

// outsideOffice reports whether the signed-in staff profile is bound to an
// office other than officeID. Super admins see every office.
func outsideOffice(st state.State, officeID string) bool {
	p := st.Profile
	if p == nil || p.Role == models.RoleSuperAdmin || p.OfficeID == "" {
		return false
	}
	return p.OfficeID != officeID
}

// ApplicationAction applies process, approve, reject or request-info to an
// application.
func (h *Handlers) ApplicationAction(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}
	id := muxVar(r, "id")
	verb := muxVar(r, "action")

	st := h.store.State()
	app, ok := st.FindApplication(id)
	if !ok {
		sendError(w, http.StatusNotFound, "Application not found", nil)
		return
	}
	if outsideOffice(st, app.OfficeID) {
		sendError(w, http.StatusForbidden, "Application belongs to another office", nil)
		return
	}

	var action state.Action
	switch verb {
	case "process":
		if app.Status != models.StatusSubmitted {
			sendError(w, http.StatusConflict, "Only submitted applications can be processed", app.Status)
			return
		}
		action = state.StartProcessing{ApplicationID: id}
	case "approve":
		action = state.ApproveApplication{ApplicationID: id}
	case "reject":
		action = state.RejectApplication{ApplicationID: id}
	case "request-info":
		action = state.RequestInfo{ApplicationID: id}
	default:
		sendError(w, http.StatusNotFound, "Unknown action", verb)
		return
	}

	next := h.store.Dispatch(action)
	app, _ = next.FindApplication(id)
	h.logAudit(claims, "UPDATE", "APPLICATION", fmt.Sprintf("%s %s -> %s", verb, id, app.Status), r)
	sendJSON(w, http.StatusOK, app)
}

func (h *Handlers) DocumentAction(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}
	id := muxVar(r, "id")
	verb := muxVar(r, "action")

	if _, ok := h.store.State().FindDocument(id); !ok {
		sendError(w, http.StatusNotFound, "Document not found", nil)
		return
	}

	var action state.Action
	switch verb {
	case "verify":
		action = state.VerifyDocument{DocumentID: id}
	case "reject":
		action = state.RejectDocument{DocumentID: id}
	default:
		sendError(w, http.StatusNotFound, "Unknown action", verb)
		return
	}

	next := h.store.Dispatch(action)
	doc, _ := next.FindDocument(id)
	h.logAudit(claims, "UPDATE", "DOCUMENT", fmt.Sprintf("%s %s -> %s", verb, id, doc.VerificationStatus), r)
	sendJSON(w, http.StatusOK, doc)
}

func (h *Handlers) PublishNotification(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrReject(w, r)
	if claims == nil {
		return
	}

	var req models.PublishNotificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if outsideOffice(h.store.State(), req.Office) {
		sendError(w, http.StatusForbidden, "Cannot publish for another office", nil)
		return
	}
	if req.Visibility == models.VisibilityPublic {
		req.TargetUserID = ""
	}

	id := h.store.NewID()
	st := h.store.Dispatch(state.PublishNotification{Notification: models.Notification{
		ID:           id,
		Office:       req.Office,
		Type:         req.Type,
		Priority:     req.Priority,
		Title:        utils.SanitizeString(req.Title),
		Body:         utils.SanitizeString(req.Body),
		Visibility:   req.Visibility,
		TargetUserID: req.TargetUserID,
	}})

	var published *models.Notification
	for i := range st.Notifications {
		if st.Notifications[i].ID == id {
			published = &st.Notifications[i]
			break
		}
	}
	if published == nil {
		sendError(w, http.StatusConflict, "Notification was not published", nil)
		return
	}

	h.logAudit(claims, "CREATE", "NOTIFICATION", fmt.Sprintf("%s notification %q", req.Visibility, published.Title), r)
	sendJSON(w, http.StatusCreated, published)
}

func (h *Handlers) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	profileID := r.URL.Query().Get("profile_id")
	scoped := func() *gorm.DB {
		q := h.db.Model(&models.AuditLog{})
		if profileID != "" {
			q = q.Where("profile_id = ?", profileID)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch audit logs", nil)
		return
	}

	var auditLogs []models.AuditLog
	if err := scoped().Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&auditLogs).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch audit logs", nil)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"logs":  auditLogs,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}
