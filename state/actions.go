package state

import "egov-portal/models"

// Action is a typed command accepted by the reducer.
type Action interface {
	Kind() string
}

type SetSession struct {
	User    models.SessionUser
	Profile models.Profile
}

type SetLoading struct{ Loading bool }

type SetView struct{ View View }

type Login struct {
	Email string
	Role  models.Role
}

type Signup struct {
	Name  string
	Email string
	Phone string
}

type Logout struct{}

type UpsertApplication struct{ Application models.Application }

// SubmitApplication creates an application for the signed-in profile. ID is
// optional; the reducer generates one when empty.
type SubmitApplication struct {
	ID        string
	ServiceID string
	FormData  map[string]interface{}
}

type CompletePayment struct {
	ApplicationID string
	Success       bool
}

type StartProcessing struct{ ApplicationID string }

type ApproveApplication struct{ ApplicationID string }

type RejectApplication struct{ ApplicationID string }

type RequestInfo struct{ ApplicationID string }

type CallNextToken struct{ Token string }

type UploadDocument struct {
	ID          string
	DocType     string
	FileName    string
	Hash        string
	StoragePath string
	Metadata    map[string]string
}

type VerifyDocument struct{ DocumentID string }

type RejectDocument struct{ DocumentID string }

type UpsertService struct{ Service models.Service }

type PublishNotification struct{ Notification models.Notification }

type MarkNotificationRead struct{ NotificationID string }

type AddToast struct {
	ID      string
	Message string
	Type    models.ToastType
}

type RemoveToast struct{ ID string }

type SetTheme struct{ Theme models.Theme }

type SetLanguage struct{ Language models.Language }

type SetAccessibility struct{ Accessibility models.Accessibility }

func (SetSession) Kind() string           { return "session/set" }
func (SetLoading) Kind() string           { return "ui/loading" }
func (SetView) Kind() string              { return "ui/view" }
func (Login) Kind() string                { return "auth/login" }
func (Signup) Kind() string               { return "auth/signup" }
func (Logout) Kind() string               { return "auth/logout" }
func (UpsertApplication) Kind() string    { return "application/upsert" }
func (SubmitApplication) Kind() string    { return "application/submit" }
func (CompletePayment) Kind() string      { return "application/payment" }
func (StartProcessing) Kind() string      { return "application/process" }
func (ApproveApplication) Kind() string   { return "application/approve" }
func (RejectApplication) Kind() string    { return "application/reject" }
func (RequestInfo) Kind() string          { return "application/request_info" }
func (CallNextToken) Kind() string        { return "queue/call" }
func (UploadDocument) Kind() string       { return "document/upload" }
func (VerifyDocument) Kind() string       { return "document/verify" }
func (RejectDocument) Kind() string       { return "document/reject" }
func (UpsertService) Kind() string        { return "service/upsert" }
func (PublishNotification) Kind() string  { return "notification/publish" }
func (MarkNotificationRead) Kind() string { return "notification/read" }
func (AddToast) Kind() string             { return "toast/add" }
func (RemoveToast) Kind() string          { return "toast/remove" }
func (SetTheme) Kind() string             { return "ui/theme" }
func (SetLanguage) Kind() string          { return "ui/language" }
func (SetAccessibility) Kind() string     { return "ui/accessibility" }
