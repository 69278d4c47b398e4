package models

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// WalletDocument is a citizen-owned upload. It is never deleted; only its
// verification status changes.
type WalletDocument struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	DocType            string             `json:"doc_type"`
	FileName           string             `json:"file_name"`
	Hash               string             `json:"hash"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	StoragePath        string             `json:"storage_path"`
	Metadata           map[string]string  `json:"metadata,omitempty"`
	UploadedAt         time.Time          `json:"uploaded_at"`
}
