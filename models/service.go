package models

import "encoding/json"

type Office struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	District string `json:"district"`
	Counters int    `json:"counters"`
}

// Service is a catalog entry citizens can apply for.
// FormSchema holds a JSON Schema document for the application form.
type Service struct {
	ID            string          `json:"id" validate:"required"`
	Code          string          `json:"code" validate:"required"`
	Name          string          `json:"name" validate:"required,min=3"`
	Category      string          `json:"category" validate:"required"`
	Description   string          `json:"description"`
	RequiredDocs  []string        `json:"required_docs"`
	Fee           float64         `json:"fee" validate:"min=0"`
	EstimatedTime string          `json:"estimated_time"`
	Offices       []Office        `json:"offices"`
	FormSchema    json.RawMessage `json:"form_schema,omitempty"`
}

// PrimaryOffice returns the first office serving the service, or "" if none.
func (s Service) PrimaryOffice() string {
	if len(s.Offices) == 0 {
		return ""
	}
	return s.Offices[0].ID
}
