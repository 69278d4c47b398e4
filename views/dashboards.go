package views

import (
	"errors"
	"slices"
	"time"

	"egov-portal/models"
	"egov-portal/state"
)

var ErrNoProfile = errors.New("no profile signed in")

type CitizenDashboard struct {
	Profile       models.Profile          `json:"profile"`
	Applications  []models.Application    `json:"applications"`
	Wallet        []models.WalletDocument `json:"wallet"`
	Notifications []models.Notification   `json:"notifications"`
	Services      []models.Service        `json:"services"`
}

type AdminDashboard struct {
	OfficeID         string                           `json:"office_id,omitempty"`
	Applications     []models.Application             `json:"applications"`
	PendingDocuments []models.WalletDocument          `json:"pending_documents"`
	StatusCounts     map[models.ApplicationStatus]int `json:"status_counts"`
}

type QueueEntry struct {
	Token         string    `json:"token"`
	ApplicationID string    `json:"application_id"`
	ServiceName   string    `json:"service_name"`
	Since         time.Time `json:"since"`
}

// KioskQueue lists approved tokens waiting to be called, oldest submission
// first, and the tokens currently being served.
type KioskQueue struct {
	OfficeID string       `json:"office_id,omitempty"`
	Waiting  []QueueEntry `json:"waiting"`
	Serving  []QueueEntry `json:"serving"`
}

type GovernmentStats struct {
	TotalApplications int                               `json:"total_applications"`
	ByService         map[string]int                    `json:"by_service"`
	ByStatus          map[models.ApplicationStatus]int  `json:"by_status"`
	Documents         map[models.VerificationStatus]int `json:"documents"`
	Citizens          int                               `json:"citizens"`
	FeesCollected     float64                           `json:"fees_collected"`
}

// Dashboard builds the read model for the signed-in profile's role.
func Dashboard(s state.State) (interface{}, error) {
	if !s.Authenticated() {
		return nil, ErrNoProfile
	}
	switch s.Profile.Role {
	case models.RoleCitizen:
		return Citizen(s), nil
	case models.RoleAdmin:
		return Admin(s), nil
	case models.RoleKiosk:
		return Kiosk(s), nil
	case models.RoleSuperAdmin:
		return Government(s), nil
	default:
		return nil, ErrNoProfile
	}
}

func Citizen(s state.State) CitizenDashboard {
	d := CitizenDashboard{
		Applications:  []models.Application{},
		Wallet:        s.Wallet,
		Notifications: s.VisibleNotifications(),
		Services:      s.Services,
	}
	if s.Profile == nil {
		return d
	}
	d.Profile = *s.Profile
	for _, app := range s.Applications {
		if app.UserID == s.Profile.ID {
			d.Applications = append(d.Applications, app)
		}
	}
	if d.Wallet == nil {
		d.Wallet = []models.WalletDocument{}
	}
	return d
}

// Admin scopes applications to the admin's office. Profiles without an
// office see every application.
func Admin(s state.State) AdminDashboard {
	d := AdminDashboard{
		Applications:     []models.Application{},
		PendingDocuments: []models.WalletDocument{},
		StatusCounts:     make(map[models.ApplicationStatus]int),
	}
	if s.Profile != nil {
		d.OfficeID = s.Profile.OfficeID
	}

	for _, app := range s.Applications {
		if d.OfficeID != "" && app.OfficeID != d.OfficeID {
			continue
		}
		d.Applications = append(d.Applications, app)
		d.StatusCounts[app.Status]++
	}
	for _, doc := range s.Documents {
		if doc.VerificationStatus == models.VerificationPending {
			d.PendingDocuments = append(d.PendingDocuments, doc)
		}
	}
	return d
}

func Kiosk(s state.State) KioskQueue {
	q := KioskQueue{Waiting: []QueueEntry{}, Serving: []QueueEntry{}}
	if s.Profile != nil {
		q.OfficeID = s.Profile.OfficeID
	}

	var waiting []models.Application
	for _, app := range s.Applications {
		if app.Token == "" || (q.OfficeID != "" && app.OfficeID != q.OfficeID) {
			continue
		}
		switch app.Status {
		case models.StatusApproved:
			waiting = append(waiting, app)
		case models.StatusCalled:
			q.Serving = append(q.Serving, queueEntry(s, app))
		}
	}
	slices.SortStableFunc(waiting, func(a, b models.Application) int {
		return a.SubmittedAt.Compare(b.SubmittedAt)
	})
	for _, app := range waiting {
		q.Waiting = append(q.Waiting, queueEntry(s, app))
	}
	return q
}

func Government(s state.State) GovernmentStats {
	g := GovernmentStats{
		TotalApplications: len(s.Applications),
		ByService:         make(map[string]int),
		ByStatus:          make(map[models.ApplicationStatus]int),
		Documents:         make(map[models.VerificationStatus]int),
		Citizens:          len(s.CitizenProfiles),
	}
	for _, app := range s.Applications {
		g.ByService[app.ServiceID]++
		g.ByStatus[app.Status]++
		if app.PaymentStatus == models.PaymentPaid {
			if svc, ok := s.FindService(app.ServiceID); ok {
				g.FeesCollected += svc.Fee
			}
		}
	}
	for _, doc := range s.Documents {
		g.Documents[doc.VerificationStatus]++
	}
	return g
}

func queueEntry(s state.State, app models.Application) QueueEntry {
	e := QueueEntry{Token: app.Token, ApplicationID: app.ID, ServiceName: app.ServiceID}
	if svc, ok := s.FindService(app.ServiceID); ok {
		e.ServiceName = svc.Name
	}
	if last, ok := app.LastChange(); ok {
		e.Since = last.Timestamp
	}
	return e
}
