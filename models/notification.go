package models

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type NotificationAudit struct {
	Action string    `json:"action"` // created, read
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

// Notification is a persisted notice published by an office, as opposed to
// a Toast.
type Notification struct {
	ID           string              `json:"id"`
	Office       string              `json:"office"`
	Type         string              `json:"type"`     // announcement, status_update, reminder
	Priority     string              `json:"priority"` // low, normal, high
	Title        string              `json:"title"`
	Body         string              `json:"body"`
	Visibility   Visibility          `json:"visibility"`
	TargetUserID string              `json:"target_user_id,omitempty"`
	CreatedBy    string              `json:"created_by"`
	CreatedAt    time.Time           `json:"created_at"`
	Read         bool                `json:"read"`
	Audit        []NotificationAudit `json:"audit"`
}

// VisibleTo reports whether the notification may be shown to profileID.
func (n Notification) VisibleTo(profileID string) bool {
	if n.Visibility == VisibilityPublic {
		return true
	}
	return profileID != "" && n.TargetUserID == profileID
}
