// Package views derives what the portal shows from a state snapshot: which
// screen is active and the read models behind each role's dashboard.
package views

import (
	"egov-portal/models"
	"egov-portal/state"
)

// ScreenLoading is shown while the portal boots.
const ScreenLoading = "loading"

// Screen is the outcome of routing a state snapshot.
type Screen struct {
	Name string `json:"screen"`
	// Intended is the protected view an anonymous visitor asked for before
	// being sent to login.
	Intended state.View `json:"intended,omitempty"`
	// Redirected is set when an authenticated user asked for a portal other
	// than their own.
	Redirected bool `json:"redirected,omitempty"`
}

// Known reports whether v names a view of the portal.
func Known(v state.View) bool {
	switch v {
	case state.ViewLanding, state.ViewLogin, state.ViewSignup, state.ViewNotifications,
		state.ViewCitizen, state.ViewAdmin, state.ViewKiosk, state.ViewSuperAdmin:
		return true
	}
	return false
}

// Protected reports whether v requires a signed-in profile.
func Protected(v state.View) bool {
	switch v {
	case state.ViewLanding, state.ViewLogin, state.ViewSignup, state.ViewNotifications:
		return false
	}
	return true
}

// Resolve picks exactly one screen for s.
func Resolve(s state.State) Screen {
	if s.IsLoading {
		return Screen{Name: ScreenLoading}
	}
	if !Protected(s.View) {
		return Screen{Name: string(s.View)}
	}
	if !s.Authenticated() {
		if !Known(s.View) {
			return Screen{Name: string(state.ViewLanding)}
		}
		return Screen{Name: string(state.ViewLogin), Intended: s.View}
	}

	own := portal(s.Profile.Role)
	if s.View != own {
		return Screen{Name: string(own), Redirected: true}
	}
	return Screen{Name: string(own)}
}

func portal(role models.Role) state.View {
	switch role {
	case models.RoleCitizen:
		return state.ViewCitizen
	case models.RoleAdmin:
		return state.ViewAdmin
	case models.RoleKiosk:
		return state.ViewKiosk
	case models.RoleSuperAdmin:
		return state.ViewSuperAdmin
	default:
		return state.ViewLanding
	}
}
