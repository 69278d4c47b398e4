package state

import (
	"fmt"
	"slices"
	"strings"

	"egov-portal/models"
	"egov-portal/utils"
)

// Reducer maps (state, action) to a new state. It never mutates its input:
// every slice it changes is copied first. Time and identifiers come from the
// injected clock and IDSource so replays are deterministic.
type Reducer struct {
	now     Clock
	ids     IDSource
	initial func() State
}

// NewReducer builds a reducer. initial produces the state logout returns to.
func NewReducer(now Clock, ids IDSource, initial func() State) *Reducer {
	return &Reducer{now: now, ids: ids, initial: initial}
}

// Reduce applies a to s. Unknown or inapplicable actions return s unchanged.
func (r *Reducer) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetSession:
		return r.setSession(s, a)
	case SetLoading:
		s.IsLoading = a.Loading
		return s
	case SetView:
		s.View = a.View
		return s
	case Login:
		return r.login(s, a)
	case Signup:
		return r.signup(s, a)
	case Logout:
		return r.logout(s)
	case UpsertApplication:
		return r.upsertApplication(s, a)
	case SubmitApplication:
		return r.submitApplication(s, a)
	case CompletePayment:
		return r.completePayment(s, a)
	case StartProcessing:
		return r.startProcessing(s, a)
	case ApproveApplication:
		return r.transition(s, a.ApplicationID, models.StatusApproved, func(app models.Application) (string, models.ToastType) {
			return fmt.Sprintf("Application %s approved", app.ID), models.ToastSuccess
		})
	case RejectApplication:
		return r.transition(s, a.ApplicationID, models.StatusRejected, func(app models.Application) (string, models.ToastType) {
			return fmt.Sprintf("Application %s rejected", app.ID), models.ToastError
		})
	case RequestInfo:
		return r.transition(s, a.ApplicationID, models.StatusMoreInfoRequested, func(app models.Application) (string, models.ToastType) {
			return fmt.Sprintf("More information requested for application %s", app.ID), models.ToastWarning
		})
	case CallNextToken:
		return r.callNextToken(s, a)
	case UploadDocument:
		return r.uploadDocument(s, a)
	case VerifyDocument:
		return r.setDocumentStatus(s, a.DocumentID, models.VerificationVerified)
	case RejectDocument:
		return r.setDocumentStatus(s, a.DocumentID, models.VerificationRejected)
	case UpsertService:
		return r.upsertService(s, a)
	case PublishNotification:
		return r.publishNotification(s, a)
	case MarkNotificationRead:
		return r.markNotificationRead(s, a)
	case AddToast:
		return r.addToast(s, a.ID, a.Message, a.Type)
	case RemoveToast:
		return removeToast(s, a.ID)
	case SetTheme:
		s.Theme = a.Theme
		return s
	case SetLanguage:
		s.Language = a.Language
		return s
	case SetAccessibility:
		s.Accessibility = a.Accessibility
		return s
	}
	return s
}

func (r *Reducer) setSession(s State, a SetSession) State {
	user := a.User
	profile := a.Profile
	s.User = &user
	s.Profile = &profile
	s.View = ViewForRole(profile.Role)
	s.IsLoading = false
	s.Wallet = walletFor(s.Documents, profile.ID)
	return s
}

func (r *Reducer) login(s State, a Login) State {
	match, ok := s.FindProfile(a.Email, a.Role)
	if !ok {
		return r.addToast(s, "", fmt.Sprintf("No %s account found for %s", a.Role, a.Email), models.ToastError)
	}
	if s.Profile != nil && s.Profile.ID != match.ID {
		return r.addToast(s, "", "Please log out before switching accounts", models.ToastError)
	}

	s = r.setSession(s, SetSession{
		User:    models.SessionUser{ID: match.ID, Email: match.Email},
		Profile: match,
	})
	return r.addToast(s, "", fmt.Sprintf("Welcome back, %s!", match.Name), models.ToastSuccess)
}

func (r *Reducer) signup(s State, a Signup) State {
	for _, p := range s.CitizenProfiles {
		if strings.EqualFold(p.Email, a.Email) {
			return r.addToast(s, "", "An account with this email already exists", models.ToastError)
		}
	}
	if s.Profile != nil {
		return r.addToast(s, "", "Please log out before creating a new account", models.ToastError)
	}

	profile := models.Profile{
		ID:    r.ids.NewID(),
		Name:  a.Name,
		Email: a.Email,
		Phone: a.Phone,
		Role:  models.RoleCitizen,
	}
	s.CitizenProfiles = append(slices.Clip(s.CitizenProfiles), profile)
	s = r.setSession(s, SetSession{
		User:    models.SessionUser{ID: profile.ID, Email: profile.Email},
		Profile: profile,
	})
	return r.addToast(s, "", fmt.Sprintf("Welcome, %s! Your account has been created.", profile.Name), models.ToastSuccess)
}

func (r *Reducer) logout(s State) State {
	next := r.initial()
	next.Services = s.Services
	next.Theme = s.Theme
	next.IsLoading = false
	next.View = ViewLanding
	return next
}

func (r *Reducer) upsertApplication(s State, a UpsertApplication) State {
	app := a.Application.Clone()
	if last, ok := app.LastChange(); !ok || last.Status != app.Status {
		app.StatusHistory = append(app.StatusHistory, r.historyEntry(app.ID, app.Status))
	}

	idx := slices.IndexFunc(s.Applications, func(x models.Application) bool { return x.ID == app.ID })
	var prev *models.Application
	if idx >= 0 {
		p := s.Applications[idx]
		prev = &p
		s.Applications = replaceAt(s.Applications, idx, app)
	} else {
		s.Applications = append(slices.Clip(s.Applications), app)
	}
	sortApplications(s.Applications)

	if prev == nil || prev.Status == app.Status {
		return s
	}
	switch app.Status {
	case models.StatusApproved:
		return r.addToast(s, "", fmt.Sprintf("Your application for %s has been approved!", serviceName(s, app.ServiceID)), models.ToastSuccess)
	case models.StatusCalled:
		return r.addToast(s, "", fmt.Sprintf("Token %s is now being called at the counter", app.Token), models.ToastInfo)
	}
	return s
}

func (r *Reducer) submitApplication(s State, a SubmitApplication) State {
	if s.Profile == nil {
		return r.addToast(s, "", "Please log in to apply for a service", models.ToastError)
	}
	svc, ok := s.FindService(a.ServiceID)
	if !ok {
		return r.addToast(s, "", fmt.Sprintf("Service %s not found", a.ServiceID), models.ToastError)
	}

	id := a.ID
	if id == "" {
		id = r.ids.NewID()
	}
	formData := make(map[string]interface{}, len(a.FormData))
	for k, v := range a.FormData {
		formData[k] = v
	}
	app := models.Application{
		ID:            id,
		ServiceID:     svc.ID,
		UserID:        s.Profile.ID,
		SubmittedAt:   r.now(),
		Status:        models.StatusPendingPayment,
		PaymentStatus: models.PaymentPending,
		OfficeID:      svc.PrimaryOffice(),
		FormData:      formData,
	}
	app.StatusHistory = []models.StatusChange{r.historyEntry(app.ID, app.Status)}

	s.Applications = append(slices.Clip(s.Applications), app)
	sortApplications(s.Applications)
	return r.addToast(s, "", fmt.Sprintf("Application for %s created. Complete the payment to submit it.", svc.Name), models.ToastInfo)
}

func (r *Reducer) completePayment(s State, a CompletePayment) State {
	idx := slices.IndexFunc(s.Applications, func(x models.Application) bool { return x.ID == a.ApplicationID })
	if idx < 0 || s.Applications[idx].Status != models.StatusPendingPayment {
		return s
	}

	app := s.Applications[idx].Clone()
	if !a.Success {
		app.PaymentStatus = models.PaymentFailed
		s.Applications = replaceAt(s.Applications, idx, app)
		return r.addToast(s, "", "Payment failed. Please try again.", models.ToastError)
	}

	app.PaymentStatus = models.PaymentPaid
	app.Token = r.ids.NextToken()
	app.Status = models.StatusSubmitted
	app.StatusHistory = append(app.StatusHistory, r.historyEntry(app.ID, app.Status))
	s.Applications = replaceAt(s.Applications, idx, app)
	return r.addToast(s, "", fmt.Sprintf("Payment successful. Your token number is %s", app.Token), models.ToastSuccess)
}

func (r *Reducer) startProcessing(s State, a StartProcessing) State {
	app, ok := s.FindApplication(a.ApplicationID)
	if !ok || app.Status != models.StatusSubmitted {
		return s
	}
	return r.transition(s, a.ApplicationID, models.StatusProcessing, func(app models.Application) (string, models.ToastType) {
		return fmt.Sprintf("Application %s is now being processed", app.ID), models.ToastInfo
	})
}

func (r *Reducer) callNextToken(s State, a CallNextToken) State {
	matches := 0
	var id string
	for _, app := range s.Applications {
		if app.Status == models.StatusApproved && app.Token == a.Token {
			matches++
			id = app.ID
		}
	}
	if matches != 1 {
		return s
	}
	return r.transition(s, id, models.StatusCalled, func(app models.Application) (string, models.ToastType) {
		return fmt.Sprintf("Now serving token %s", app.Token), models.ToastInfo
	})
}

// transition appends one history entry moving the application to status.
func (r *Reducer) transition(s State, id string, status models.ApplicationStatus, toast func(models.Application) (string, models.ToastType)) State {
	idx := slices.IndexFunc(s.Applications, func(x models.Application) bool { return x.ID == id })
	if idx < 0 {
		return s
	}

	app := s.Applications[idx].Clone()
	app.Status = status
	app.StatusHistory = append(app.StatusHistory, r.historyEntry(app.ID, status))
	s.Applications = replaceAt(s.Applications, idx, app)

	msg, typ := toast(app)
	return r.addToast(s, "", msg, typ)
}

func (r *Reducer) uploadDocument(s State, a UploadDocument) State {
	if s.Profile == nil {
		return r.addToast(s, "", "Please log in to upload documents", models.ToastError)
	}

	id := a.ID
	if id == "" {
		id = r.ids.NewID()
	}
	doc := models.WalletDocument{
		ID:                 id,
		UserID:             s.Profile.ID,
		DocType:            a.DocType,
		FileName:           a.FileName,
		Hash:               a.Hash,
		VerificationStatus: models.VerificationPending,
		StoragePath:        a.StoragePath,
		Metadata:           a.Metadata,
		UploadedAt:         r.now(),
	}
	s.Documents = append(slices.Clip(s.Documents), doc)
	s.Wallet = append(slices.Clip(s.Wallet), doc)
	return r.addToast(s, "", fmt.Sprintf("%s uploaded to your wallet", doc.FileName), models.ToastSuccess)
}

func (r *Reducer) setDocumentStatus(s State, id string, status models.VerificationStatus) State {
	var fileName string
	found := false

	if idx := slices.IndexFunc(s.Documents, func(d models.WalletDocument) bool { return d.ID == id }); idx >= 0 {
		doc := s.Documents[idx]
		doc.VerificationStatus = status
		fileName = doc.FileName
		found = true
		s.Documents = replaceAt(s.Documents, idx, doc)
	}
	if idx := slices.IndexFunc(s.Wallet, func(d models.WalletDocument) bool { return d.ID == id }); idx >= 0 {
		doc := s.Wallet[idx]
		doc.VerificationStatus = status
		fileName = doc.FileName
		found = true
		s.Wallet = replaceAt(s.Wallet, idx, doc)
	}
	if !found {
		return s
	}

	if status == models.VerificationVerified {
		return r.addToast(s, "", fmt.Sprintf("%s has been verified", fileName), models.ToastSuccess)
	}
	return r.addToast(s, "", fmt.Sprintf("%s has been rejected", fileName), models.ToastError)
}

func (r *Reducer) upsertService(s State, a UpsertService) State {
	idx := slices.IndexFunc(s.Services, func(x models.Service) bool { return x.ID == a.Service.ID })
	if idx >= 0 {
		s.Services = replaceAt(s.Services, idx, a.Service)
		return r.addToast(s, "", fmt.Sprintf("Service %s updated", a.Service.Name), models.ToastSuccess)
	}
	s.Services = append(slices.Clip(s.Services), a.Service)
	return r.addToast(s, "", fmt.Sprintf("Service %s created", a.Service.Name), models.ToastSuccess)
}

func (r *Reducer) publishNotification(s State, a PublishNotification) State {
	if s.Profile == nil {
		return s
	}

	n := a.Notification
	if n.ID == "" {
		n.ID = r.ids.NewID()
	}
	now := r.now()
	n.CreatedBy = s.Profile.ID
	n.CreatedAt = now
	n.Read = false
	n.Audit = []models.NotificationAudit{{Action: "created", Actor: s.Profile.ID, At: now}}

	s.Notifications = append([]models.Notification{n}, s.Notifications...)
	return r.addToast(s, "", fmt.Sprintf("Notification %q published", n.Title), models.ToastSuccess)
}

func (r *Reducer) markNotificationRead(s State, a MarkNotificationRead) State {
	idx := slices.IndexFunc(s.Notifications, func(n models.Notification) bool { return n.ID == a.NotificationID })
	if idx < 0 || s.Notifications[idx].Read {
		return s
	}

	actor := ""
	if s.Profile != nil {
		actor = s.Profile.ID
	}
	n := s.Notifications[idx]
	n.Read = true
	n.Audit = append(slices.Clip(n.Audit), models.NotificationAudit{Action: "read", Actor: actor, At: r.now()})
	s.Notifications = replaceAt(s.Notifications, idx, n)
	return s
}

func (r *Reducer) addToast(s State, id, message string, typ models.ToastType) State {
	if id == "" {
		id = r.ids.NewID()
	}
	if typ == "" {
		typ = models.ToastInfo
	}
	s.Toasts = append(slices.Clip(s.Toasts), models.Toast{ID: id, Message: message, Type: typ})
	return s
}

func removeToast(s State, id string) State {
	idx := slices.IndexFunc(s.Toasts, func(t models.Toast) bool { return t.ID == id })
	if idx < 0 {
		return s
	}
	s.Toasts = slices.Delete(slices.Clone(s.Toasts), idx, idx+1)
	return s
}

func (r *Reducer) historyEntry(appID string, status models.ApplicationStatus) models.StatusChange {
	at := r.now()
	return models.StatusChange{
		Status:    status,
		Timestamp: at,
		Hash:      utils.HistoryHash(appID, string(status), at, r.ids.Nonce()),
	}
}

func walletFor(docs []models.WalletDocument, userID string) []models.WalletDocument {
	out := make([]models.WalletDocument, 0)
	for _, d := range docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out
}

func serviceName(s State, id string) string {
	if svc, ok := s.FindService(id); ok {
		return svc.Name
	}
	return id
}

// sortApplications orders newest first. xs must be owned by the caller.
func sortApplications(xs []models.Application) {
	slices.SortStableFunc(xs, func(a, b models.Application) int {
		return b.SubmittedAt.Compare(a.SubmittedAt)
	})
}

func replaceAt[T any](xs []T, i int, v T) []T {
	out := slices.Clone(xs)
	out[i] = v
	return out
}
