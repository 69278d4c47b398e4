package state

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egov-portal/models"
)

// steppingClock advances one second on every call so history entries are
// strictly ordered.
func steppingClock(start time.Time) Clock {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func newTestReducer() *Reducer {
	return NewReducer(steppingClock(time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)), NewSequentialIDs("id"), Seed)
}

func loggedIn(t *testing.T, r *Reducer, email string, role models.Role) State {
	t.Helper()
	s := r.Reduce(Seed(), Login{Email: email, Role: role})
	require.NotNil(t, s.Profile)
	return s
}

func lastToast(t *testing.T, s State) models.Toast {
	t.Helper()
	require.NotEmpty(t, s.Toasts)
	return s.Toasts[len(s.Toasts)-1]
}

func assertHistoryInvariant(t *testing.T, apps []models.Application) {
	t.Helper()
	for _, app := range apps {
		require.NotEmpty(t, app.StatusHistory, "application %s has no history", app.ID)
		last, _ := app.LastChange()
		assert.Equal(t, app.Status, last.Status, "application %s", app.ID)
		for i := 1; i < len(app.StatusHistory); i++ {
			assert.False(t, app.StatusHistory[i].Timestamp.Before(app.StatusHistory[i-1].Timestamp),
				"application %s history out of order", app.ID)
		}
	}
}

type unknownAction struct{}

func (unknownAction) Kind() string { return "test/unknown" }

func TestSeedSatisfiesInvariants(t *testing.T) {
	s := Seed()
	assertHistoryInvariant(t, s.Applications)

	for i := 1; i < len(s.Applications); i++ {
		assert.False(t, s.Applications[i].SubmittedAt.After(s.Applications[i-1].SubmittedAt))
	}
	_, ok := s.FindService("svc-land-tax")
	assert.True(t, ok)
}

func TestReduce_UnknownActionReturnsStateUnchanged(t *testing.T) {
	r := newTestReducer()
	s := Seed()
	assert.Equal(t, s, r.Reduce(s, unknownAction{}))
}

func TestApproveApplication(t *testing.T) {
	r := newTestReducer()
	s := Seed()

	for _, app := range s.Applications {
		t.Run(app.ID, func(t *testing.T) {
			next := r.Reduce(s, ApproveApplication{ApplicationID: app.ID})

			got, ok := next.FindApplication(app.ID)
			require.True(t, ok)
			assert.Equal(t, models.StatusApproved, got.Status)
			require.Len(t, got.StatusHistory, len(app.StatusHistory)+1)

			last, _ := got.LastChange()
			assert.Equal(t, models.StatusApproved, last.Status)
			assert.Regexp(t, `^0x[0-9a-f]{32}$`, last.Hash)
			assert.Equal(t, models.ToastSuccess, lastToast(t, next).Type)
			assertHistoryInvariant(t, next.Applications)
		})
	}
}

func TestAdminTransitions(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		action Action
		want   models.ApplicationStatus
		toast  models.ToastType
	}{
		{"reject", "app-1003", RejectApplication{ApplicationID: "app-1003"}, models.StatusRejected, models.ToastError},
		{"request info", "app-1003", RequestInfo{ApplicationID: "app-1003"}, models.StatusMoreInfoRequested, models.ToastWarning},
		{"start processing", "app-1004", StartProcessing{ApplicationID: "app-1004"}, models.StatusProcessing, models.ToastInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReducer()
			s := Seed()
			before, _ := s.FindApplication(tt.id)

			next := r.Reduce(s, tt.action)

			got, _ := next.FindApplication(tt.id)
			assert.Equal(t, tt.want, got.Status)
			assert.Len(t, got.StatusHistory, len(before.StatusHistory)+1)
			assert.Equal(t, tt.toast, lastToast(t, next).Type)
			assertHistoryInvariant(t, next.Applications)
		})
	}
}

func TestTransitions_UnknownApplicationIsNoOp(t *testing.T) {
	r := newTestReducer()
	s := Seed()

	for _, a := range []Action{
		ApproveApplication{ApplicationID: "missing"},
		RejectApplication{ApplicationID: "missing"},
		RequestInfo{ApplicationID: "missing"},
		StartProcessing{ApplicationID: "missing"},
		CompletePayment{ApplicationID: "missing", Success: true},
		VerifyDocument{DocumentID: "missing"},
		RejectDocument{DocumentID: "missing"},
		MarkNotificationRead{NotificationID: "missing"},
		RemoveToast{ID: "missing"},
	} {
		assert.Equal(t, s, r.Reduce(s, a), a.Kind())
	}
}

func TestStartProcessing_OnlyFromSubmitted(t *testing.T) {
	r := newTestReducer()
	s := Seed()
	// app-1003 is already Processing.
	assert.Equal(t, s, r.Reduce(s, StartProcessing{ApplicationID: "app-1003"}))
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	r := newTestReducer()
	s := Seed()
	before, _ := s.FindApplication("app-1003")
	historyLen := len(before.StatusHistory)
	toasts := len(s.Toasts)

	_ = r.Reduce(s, ApproveApplication{ApplicationID: "app-1003"})

	after, _ := s.FindApplication("app-1003")
	assert.Equal(t, models.StatusProcessing, after.Status)
	assert.Len(t, after.StatusHistory, historyLen)
	assert.Len(t, s.Toasts, toasts)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		email string
		role  models.Role
	}{
		{"asha.verma@example.in", models.RoleCitizen},
		{"PRIYA.NAIR@gov.example.in", models.RoleAdmin},
		{"kiosk.central@gov.example.in", models.RoleKiosk},
		{"vikram.rao@gov.example.in", models.RoleSuperAdmin},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			r := newTestReducer()
			s := r.Reduce(Seed(), Login{Email: tt.email, Role: tt.role})

			require.NotNil(t, s.Profile)
			assert.Equal(t, tt.role, s.Profile.Role)
			assert.Equal(t, ViewForRole(tt.role), s.View)
			assert.False(t, s.IsLoading)
			require.NotNil(t, s.User)
			assert.Equal(t, s.Profile.ID, s.User.ID)
			assert.Equal(t, models.ToastSuccess, lastToast(t, s).Type)
		})
	}
}

func TestLogin_NoMatchLeavesProfileUnchanged(t *testing.T) {
	r := newTestReducer()

	t.Run("unknown email", func(t *testing.T) {
		s := Seed()
		next := r.Reduce(s, Login{Email: "nobody@example.in", Role: models.RoleCitizen})
		assert.Nil(t, next.Profile)
		assert.Equal(t, s.View, next.View)
		assert.Len(t, next.Toasts, len(s.Toasts)+1)
		assert.Equal(t, models.ToastError, lastToast(t, next).Type)
	})

	t.Run("role mismatch", func(t *testing.T) {
		s := Seed()
		next := r.Reduce(s, Login{Email: "asha.verma@example.in", Role: models.RoleAdmin})
		assert.Nil(t, next.Profile)
	})

	t.Run("other session active", func(t *testing.T) {
		s := loggedIn(t, r, "asha.verma@example.in", models.RoleCitizen)
		next := r.Reduce(s, Login{Email: "priya.nair@gov.example.in", Role: models.RoleAdmin})
		assert.Equal(t, "u1", next.Profile.ID)
		assert.Equal(t, models.ToastError, lastToast(t, next).Type)
	})
}

func TestLogin_LoadsPersonalWallet(t *testing.T) {
	r := newTestReducer()
	s := loggedIn(t, r, "asha.verma@example.in", models.RoleCitizen)

	require.Len(t, s.Wallet, 2)
	for _, d := range s.Wallet {
		assert.Equal(t, "u1", d.UserID)
	}
}

func TestSignup(t *testing.T) {
	t.Run("duplicate citizen email", func(t *testing.T) {
		r := newTestReducer()
		s := Seed()
		next := r.Reduce(s, Signup{Name: "Asha V", Email: "Asha.Verma@example.in"})

		assert.Len(t, next.CitizenProfiles, len(s.CitizenProfiles))
		assert.Nil(t, next.Profile)
		assert.Equal(t, models.ToastError, lastToast(t, next).Type)
	})

	t.Run("new citizen", func(t *testing.T) {
		r := newTestReducer()
		s := Seed()
		next := r.Reduce(s, Signup{Name: "Meera Iyer", Email: "meera.iyer@example.in", Phone: "9123456780"})

		require.Len(t, next.CitizenProfiles, len(s.CitizenProfiles)+1)
		require.NotNil(t, next.Profile)
		assert.Equal(t, models.RoleCitizen, next.Profile.Role)
		assert.Equal(t, "Meera Iyer", next.Profile.Name)
		assert.NotEmpty(t, next.Profile.ID)
		assert.Equal(t, ViewCitizen, next.View)
		assert.Len(t, s.CitizenProfiles, 3)
	})

	t.Run("staff email is not a citizen", func(t *testing.T) {
		r := newTestReducer()
		next := r.Reduce(Seed(), Signup{Name: "Priya", Email: "priya.nair@gov.example.in"})
		require.NotNil(t, next.Profile)
		assert.Equal(t, models.RoleCitizen, next.Profile.Role)
	})
}

func TestLogout_PreservesServicesAndTheme(t *testing.T) {
	r := newTestReducer()
	s := loggedIn(t, r, "priya.nair@gov.example.in", models.RoleAdmin)
	s = r.Reduce(s, UpsertService{Service: models.Service{ID: "svc-new", Code: "NW-01", Name: "New Service", Category: "Misc"}})
	s = r.Reduce(s, SetTheme{Theme: models.ThemeDark})
	s = r.Reduce(s, SetLanguage{Language: models.LanguageHindi})
	s = r.Reduce(s, ApproveApplication{ApplicationID: "app-1003"})

	next := r.Reduce(s, Logout{})

	assert.Nil(t, next.Profile)
	assert.Nil(t, next.User)
	assert.Equal(t, ViewLanding, next.View)
	assert.False(t, next.IsLoading)
	assert.Equal(t, models.ThemeDark, next.Theme)
	assert.Equal(t, models.LanguageEnglish, next.Language)
	assert.Equal(t, s.Services, next.Services)
	assert.Empty(t, next.Toasts)

	app, _ := next.FindApplication("app-1003")
	assert.Equal(t, models.StatusProcessing, app.Status)
}

func TestCallNextToken(t *testing.T) {
	r := newTestReducer()

	t.Run("single approved holder is called", func(t *testing.T) {
		s := Seed()
		next := r.Reduce(s, CallNextToken{Token: "TKN-0101"})

		app, _ := next.FindApplication("app-1001")
		assert.Equal(t, models.StatusCalled, app.Status)
		assert.Equal(t, models.ToastInfo, lastToast(t, next).Type)
		assertHistoryInvariant(t, next.Applications)
	})

	t.Run("unknown token", func(t *testing.T) {
		s := Seed()
		assert.Equal(t, s, r.Reduce(s, CallNextToken{Token: "TKN-9999"}))
	})

	t.Run("holder is not approved", func(t *testing.T) {
		s := Seed()
		assert.Equal(t, s, r.Reduce(s, CallNextToken{Token: "TKN-0103"}))
	})

	t.Run("token held by two approved applications", func(t *testing.T) {
		s := Seed()
		dup, _ := s.FindApplication("app-1002")
		dup.Token = "TKN-0101"
		s = r.Reduce(s, UpsertApplication{Application: dup})

		assert.Equal(t, s, r.Reduce(s, CallNextToken{Token: "TKN-0101"}))
	})

	t.Run("already called", func(t *testing.T) {
		s := r.Reduce(Seed(), CallNextToken{Token: "TKN-0101"})
		assert.Equal(t, s, r.Reduce(s, CallNextToken{Token: "TKN-0101"}))
	})
}

func TestUpsertService(t *testing.T) {
	r := newTestReducer()
	s := Seed()

	created := r.Reduce(s, UpsertService{Service: models.Service{ID: "svc-pension", Code: "PN-01", Name: "Old Age Pension", Category: "Welfare"}})
	assert.Len(t, created.Services, len(s.Services)+1)
	assert.Contains(t, lastToast(t, created).Message, "created")

	existing := s.Services[0]
	existing.Fee = 999
	updated := r.Reduce(s, UpsertService{Service: existing})
	assert.Len(t, updated.Services, len(s.Services))
	got, _ := updated.FindService(existing.ID)
	assert.Equal(t, 999.0, got.Fee)
	assert.Contains(t, lastToast(t, updated).Message, "updated")
	assert.NotEqual(t, 999.0, s.Services[0].Fee)
}

func TestSubmitAndPay(t *testing.T) {
	r := newTestReducer()
	s := loggedIn(t, r, "asha.verma@example.in", models.RoleCitizen)

	s = r.Reduce(s, SubmitApplication{ID: "app-new", ServiceID: "svc-land-tax", FormData: map[string]interface{}{"survey_number": "SY-204", "district": "Central"}})
	app, ok := s.FindApplication("app-new")
	require.True(t, ok)
	assert.Equal(t, "u1", app.UserID)
	assert.Equal(t, models.StatusPendingPayment, app.Status)
	assert.Equal(t, models.PaymentPending, app.PaymentStatus)
	assert.Equal(t, "off-central", app.OfficeID)
	assert.Empty(t, app.Token)
	assert.Equal(t, "app-new", s.Applications[0].ID, "newest application first")

	s = r.Reduce(s, CompletePayment{ApplicationID: "app-new", Success: true})
	app, _ = s.FindApplication("app-new")
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.Equal(t, models.PaymentPaid, app.PaymentStatus)
	assert.Regexp(t, regexp.MustCompile(`^TKN-\d{4}$`), app.Token)
	require.Len(t, app.StatusHistory, 2)
	assert.Equal(t, models.StatusPendingPayment, app.StatusHistory[0].Status)
	assert.Equal(t, models.StatusSubmitted, app.StatusHistory[1].Status)
	assert.Contains(t, lastToast(t, s).Message, app.Token)
	assertHistoryInvariant(t, s.Applications)

	// A second payment for the same application is ignored.
	assert.Equal(t, s, r.Reduce(s, CompletePayment{ApplicationID: "app-new", Success: true}))
}

func TestCompletePayment_Failure(t *testing.T) {
	r := newTestReducer()
	s := Seed()

	next := r.Reduce(s, CompletePayment{ApplicationID: "app-1005", Success: false})

	app, _ := next.FindApplication("app-1005")
	assert.Equal(t, models.StatusPendingPayment, app.Status)
	assert.Equal(t, models.PaymentFailed, app.PaymentStatus)
	assert.Empty(t, app.Token)
	assert.Equal(t, models.ToastError, lastToast(t, next).Type)
}

func TestSubmitApplication_Rejections(t *testing.T) {
	r := newTestReducer()

	t.Run("no session", func(t *testing.T) {
		s := Seed()
		next := r.Reduce(s, SubmitApplication{ServiceID: "svc-land-tax"})
		assert.Len(t, next.Applications, len(s.Applications))
		assert.Equal(t, models.ToastError, lastToast(t, next).Type)
	})

	t.Run("unknown service", func(t *testing.T) {
		s := loggedIn(t, r, "asha.verma@example.in", models.RoleCitizen)
		next := r.Reduce(s, SubmitApplication{ServiceID: "svc-missing"})
		assert.Len(t, next.Applications, len(s.Applications))
	})
}

func TestUpsertApplication(t *testing.T) {
	r := newTestReducer()
	s := Seed()

	t.Run("status change to approved emits toast", func(t *testing.T) {
		app, _ := s.FindApplication("app-1003")
		app.Status = models.StatusApproved

		next := r.Reduce(s, UpsertApplication{Application: app})

		got, _ := next.FindApplication("app-1003")
		assert.Equal(t, models.StatusApproved, got.Status)
		assert.Len(t, next.Applications, len(s.Applications))
		assert.Contains(t, lastToast(t, next).Message, "Trade License")
		assertHistoryInvariant(t, next.Applications)
	})

	t.Run("status change to called emits toast", func(t *testing.T) {
		app, _ := s.FindApplication("app-1001")
		app.Status = models.StatusCalled

		next := r.Reduce(s, UpsertApplication{Application: app})
		assert.Contains(t, lastToast(t, next).Message, "TKN-0101")
	})

	t.Run("new application is inserted in order without toast", func(t *testing.T) {
		app := models.Application{
			ID:          "app-0001",
			ServiceID:   "svc-land-tax",
			UserID:      "u3",
			SubmittedAt: seedEpoch.Add(-time.Hour),
			Status:      models.StatusSubmitted,
		}

		next := r.Reduce(s, UpsertApplication{Application: app})

		require.Len(t, next.Applications, len(s.Applications)+1)
		assert.Equal(t, "app-0001", next.Applications[len(next.Applications)-1].ID)
		assert.Len(t, next.Toasts, len(s.Toasts))
		assertHistoryInvariant(t, next.Applications)
	})

	t.Run("same status emits no toast", func(t *testing.T) {
		app, _ := s.FindApplication("app-1002")
		next := r.Reduce(s, UpsertApplication{Application: app})
		assert.Len(t, next.Toasts, len(s.Toasts))
	})
}

func TestDocumentVerification(t *testing.T) {
	r := newTestReducer()
	s := loggedIn(t, r, "asha.verma@example.in", models.RoleCitizen)

	verified := r.Reduce(s, VerifyDocument{DocumentID: "doc-2"})
	global, _ := verified.FindDocument("doc-2")
	assert.Equal(t, models.VerificationVerified, global.VerificationStatus)
	for _, d := range verified.Wallet {
		if d.ID == "doc-2" {
			assert.Equal(t, models.VerificationVerified, d.VerificationStatus)
		}
	}
	assert.Contains(t, lastToast(t, verified).Message, "salary_slip_2023.pdf")

	rejected := r.Reduce(s, RejectDocument{DocumentID: "doc-3"})
	global, _ = rejected.FindDocument("doc-3")
	assert.Equal(t, models.VerificationRejected, global.VerificationStatus)
	assert.Contains(t, lastToast(t, rejected).Message, "hospital_discharge.pdf")
}

func TestUploadDocument(t *testing.T) {
	r := newTestReducer()
	s := loggedIn(t, r, "rahul.mehta@example.in", models.RoleCitizen)

	next := r.Reduce(s, UploadDocument{DocType: "pan", FileName: "pan.pdf", Hash: "abc", StoragePath: "wallet/u2/pan.pdf"})

	require.Len(t, next.Documents, len(s.Documents)+1)
	require.Len(t, next.Wallet, len(s.Wallet)+1)
	doc := next.Wallet[len(next.Wallet)-1]
	assert.Equal(t, "u2", doc.UserID)
	assert.Equal(t, models.VerificationPending, doc.VerificationStatus)
	assert.Equal(t, doc, next.Documents[len(next.Documents)-1])

	anonymous := r.Reduce(Seed(), UploadDocument{FileName: "x.pdf"})
	assert.Len(t, anonymous.Documents, len(Seed().Documents))
}

func TestNotifications(t *testing.T) {
	r := newTestReducer()
	s := loggedIn(t, r, "priya.nair@gov.example.in", models.RoleAdmin)

	s = r.Reduce(s, PublishNotification{Notification: models.Notification{
		Office:     "off-central",
		Type:       "announcement",
		Priority:   "normal",
		Title:      "Extended hours",
		Body:       "Counters open until 7pm this week.",
		Visibility: models.VisibilityPublic,
	}})
	require.NotEmpty(t, s.Notifications)
	n := s.Notifications[0]
	assert.Equal(t, "Extended hours", n.Title)
	assert.Equal(t, "a1", n.CreatedBy)
	require.Len(t, n.Audit, 1)
	assert.Equal(t, "created", n.Audit[0].Action)

	s = r.Reduce(s, MarkNotificationRead{NotificationID: n.ID})
	assert.True(t, s.Notifications[0].Read)
	assert.Len(t, s.Notifications[0].Audit, 2)

	// Marking twice does not add audit entries.
	again := r.Reduce(s, MarkNotificationRead{NotificationID: n.ID})
	assert.Equal(t, s, again)
}

func TestVisibleNotifications(t *testing.T) {
	r := newTestReducer()

	anonymous := Seed().VisibleNotifications()
	require.Len(t, anonymous, 1)
	assert.Equal(t, models.VisibilityPublic, anonymous[0].Visibility)

	asha := loggedIn(t, r, "asha.verma@example.in", models.RoleCitizen).VisibleNotifications()
	assert.Len(t, asha, 2)

	rahul := loggedIn(t, r, "rahul.mehta@example.in", models.RoleCitizen).VisibleNotifications()
	assert.Len(t, rahul, 1)
}

func TestToastsAndPreferences(t *testing.T) {
	r := newTestReducer()
	s := Seed()

	s = r.Reduce(s, AddToast{ID: "t1", Message: "hello"})
	require.Len(t, s.Toasts, 1)
	assert.Equal(t, models.ToastInfo, s.Toasts[0].Type)

	s = r.Reduce(s, RemoveToast{ID: "t1"})
	assert.Empty(t, s.Toasts)

	s = r.Reduce(s, SetAccessibility{Accessibility: models.Accessibility{HighContrast: true}})
	assert.True(t, s.Accessibility.HighContrast)

	s = r.Reduce(s, SetView{View: ViewNotifications})
	assert.Equal(t, ViewNotifications, s.View)

	s = r.Reduce(s, SetLoading{Loading: false})
	assert.False(t, s.IsLoading)
}
