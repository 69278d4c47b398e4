package models

import "time"

type ApplicationStatus string

const (
	StatusPendingPayment    ApplicationStatus = "Pending Payment"
	StatusSubmitted         ApplicationStatus = "Submitted"
	StatusProcessing        ApplicationStatus = "Processing"
	StatusApproved          ApplicationStatus = "Approved"
	StatusCalled            ApplicationStatus = "Called"
	StatusMoreInfoRequested ApplicationStatus = "More Info Requested"
	StatusRejected          ApplicationStatus = "Rejected"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type StatusChange struct {
	Status    ApplicationStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Hash      string            `json:"hash"`
}

type Application struct {
	ID            string                 `json:"id"`
	ServiceID     string                 `json:"service_id"`
	UserID        string                 `json:"user_id"`
	SubmittedAt   time.Time              `json:"submitted_at"`
	Status        ApplicationStatus      `json:"status"`
	PaymentStatus PaymentStatus          `json:"payment_status"`
	StatusHistory []StatusChange         `json:"status_history"`
	Token         string                 `json:"token,omitempty"`
	OfficeID      string                 `json:"office_id,omitempty"`
	FormData      map[string]interface{} `json:"form_data,omitempty"`
}

// Clone returns a copy whose history slice can be appended to without
// touching the receiver's backing array.
func (a Application) Clone() Application {
	c := a
	c.StatusHistory = append([]StatusChange(nil), a.StatusHistory...)
	return c
}

// LastChange returns the most recent history entry.
func (a Application) LastChange() (StatusChange, bool) {
	if len(a.StatusHistory) == 0 {
		return StatusChange{}, false
	}
	return a.StatusHistory[len(a.StatusHistory)-1], true
}
