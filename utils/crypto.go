package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/blake2b"
)

// HashDocument returns the hex SHA-256 digest of r. The digest is shown to the
// citizen as an integrity reference; nothing verifies it server-side.
func HashDocument(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, fmt.Errorf("failed to hash document: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// HistoryHash derives the opaque token stored with a status history entry.
func HistoryHash(applicationID, status string, at time.Time, nonce string) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s", applicationID, status, at.UnixNano(), nonce)))
	return "0x" + hex.EncodeToString(sum[:16])
}
