// Package state holds the portal's application state and the reducer that
// implements every domain transition. All mutation goes through Store.Dispatch.
package state

import (
	"strings"

	"egov-portal/models"
)

// View names a screen of the portal. Role portals share the role's name.
type View string

const (
	ViewLanding       View = "landing"
	ViewLogin         View = "login"
	ViewSignup        View = "signup"
	ViewNotifications View = "notifications"
	ViewCitizen       View = "citizen"
	ViewAdmin         View = "admin"
	ViewKiosk         View = "kiosk"
	ViewSuperAdmin    View = "super_admin"
)

// ViewForRole returns the portal view of a role.
func ViewForRole(role models.Role) View {
	switch role {
	case models.RoleCitizen:
		return ViewCitizen
	case models.RoleAdmin:
		return ViewAdmin
	case models.RoleKiosk:
		return ViewKiosk
	case models.RoleSuperAdmin:
		return ViewSuperAdmin
	}
	return ViewLanding
}

// State is the whole portal state. Values handed out by the store are
// snapshots: callers must not modify the slices they contain.
type State struct {
	IsLoading bool `json:"is_loading"`
	View      View `json:"view"`

	User    *models.SessionUser `json:"user,omitempty"`
	Profile *models.Profile     `json:"profile,omitempty"`

	CitizenProfiles []models.Profile `json:"-"`
	StaffProfiles   []models.Profile `json:"-"`

	Services      []models.Service        `json:"services"`
	Applications  []models.Application    `json:"applications"`
	Wallet        []models.WalletDocument `json:"wallet"`
	Documents     []models.WalletDocument `json:"-"`
	Notifications []models.Notification   `json:"-"`
	Toasts        []models.Toast          `json:"toasts"`

	Theme         models.Theme         `json:"theme"`
	Language      models.Language      `json:"language"`
	Accessibility models.Accessibility `json:"accessibility"`
}

// Authenticated reports whether a profile is signed in.
func (s State) Authenticated() bool {
	return s.User != nil && s.Profile != nil
}

// FindProfile matches a seeded or signed-up profile by email and role.
func (s State) FindProfile(email string, role models.Role) (models.Profile, bool) {
	pool := s.StaffProfiles
	if role == models.RoleCitizen {
		pool = s.CitizenProfiles
	}
	for _, p := range pool {
		if p.Role == role && strings.EqualFold(p.Email, email) {
			return p, true
		}
	}
	return models.Profile{}, false
}

// FindService returns the catalog entry with the given id.
func (s State) FindService(id string) (models.Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return models.Service{}, false
}

// FindApplication returns the application with the given id.
func (s State) FindApplication(id string) (models.Application, bool) {
	for _, app := range s.Applications {
		if app.ID == id {
			return app, true
		}
	}
	return models.Application{}, false
}

// FindDocument looks a document up in the global list.
func (s State) FindDocument(id string) (models.WalletDocument, bool) {
	for _, doc := range s.Documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return models.WalletDocument{}, false
}

// VisibleNotifications returns the notification records the current profile
// may read, newest first.
func (s State) VisibleNotifications() []models.Notification {
	profileID := ""
	if s.Profile != nil {
		profileID = s.Profile.ID
	}
	out := make([]models.Notification, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		if n.VisibleTo(profileID) {
			out = append(out, n)
		}
	}
	return out
}
