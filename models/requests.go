package models

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,oneof=citizen admin kiosk super_admin"`
}

type SignupRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,min=10,max=15"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
	View    string  `json:"view"`
}

type SubmitApplicationRequest struct {
	ServiceID string                 `json:"service_id" validate:"required"`
	FormData  map[string]interface{} `json:"form_data"`
}

type PaymentRequest struct {
	// Simulate a declined payment when false. Defaults to success.
	Success *bool `json:"success,omitempty"`
}

type CallTokenRequest struct {
	Token string `json:"token" validate:"required,startswith=TKN-"`
}

type ViewRequest struct {
	View string `json:"view" validate:"required"`
}

type PreferencesRequest struct {
	Theme         *Theme         `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
	Language      *Language      `json:"language,omitempty" validate:"omitempty,oneof=en hi"`
	Accessibility *Accessibility `json:"accessibility,omitempty"`
}

type PublishNotificationRequest struct {
	Office       string     `json:"office" validate:"required"`
	Type         string     `json:"type" validate:"required,oneof=announcement status_update reminder"`
	Priority     string     `json:"priority" validate:"required,oneof=low normal high"`
	Title        string     `json:"title" validate:"required,min=3"`
	Body         string     `json:"body" validate:"required"`
	Visibility   Visibility `json:"visibility" validate:"required,oneof=public private"`
	TargetUserID string     `json:"target_user_id" validate:"required_if=Visibility private"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type SpeechErrorRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}
