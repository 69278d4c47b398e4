// Package qr issues the identity QR code a citizen shows at an office
// counter.
package qr

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"egov-portal/models"
)

var ErrNoProfile = errors.New("qr: profile required")

// Payload is encoded into the QR image. It is not signed.
type Payload struct {
	UserID string    `json:"userId"`
	Name   string    `json:"name"`
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// Issue builds a payload for profile valid for ttl from now. token is the
// citizen's most recent queue token, if any.
func Issue(profile *models.Profile, token string, now time.Time, ttl time.Duration) (Payload, error) {
	if profile == nil {
		return Payload{}, ErrNoProfile
	}
	return Payload{
		UserID: profile.ID,
		Name:   profile.Name,
		Token:  token,
		Expiry: now.Add(ttl).UTC(),
	}, nil
}

// Remaining reports how long the payload stays valid, never negative.
func (p Payload) Remaining(now time.Time) time.Duration {
	if d := p.Expiry.Sub(now); d > 0 {
		return d
	}
	return 0
}

func (p Payload) Expired(now time.Time) bool {
	return p.Remaining(now) == 0
}

func (p Payload) JSON() ([]byte, error) {
	return json.Marshal(p)
}

// PNG renders the payload as a square QR image of size pixels.
func (p Payload) PNG(size int) ([]byte, error) {
	data, err := p.JSON()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// LatestToken returns the token of userID's newest application that has one.
// apps are expected newest first.
func LatestToken(apps []models.Application, userID string) string {
	for _, app := range apps {
		if app.UserID == userID && app.Token != "" {
			return app.Token
		}
	}
	return ""
}
