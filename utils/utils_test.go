package utils

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDocument(t *testing.T) {
	hash, n, err := HashDocument(strings.NewReader("abc"))
	require.NoError(t, err)

	assert.Equal(t, int64(3), n)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hash)
}

func TestHistoryHash(t *testing.T) {
	at := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

	a := HistoryHash("app-1", "Approved", at, "n1")
	assert.Regexp(t, `^0x[0-9a-f]{32}$`, a)
	assert.Equal(t, a, HistoryHash("app-1", "Approved", at, "n1"))
	assert.NotEqual(t, a, HistoryHash("app-1", "Approved", at, "n2"))
	assert.NotEqual(t, a, HistoryHash("app-1", "Rejected", at, "n1"))
}

func TestJWT(t *testing.T) {
	require.Error(t, InitializeJWT("", time.Hour))
	require.NoError(t, InitializeJWT("utils-test-secret-0123456789abcdefgh", time.Hour))

	token, err := GenerateToken("u1", "asha.verma@example.in", "citizen")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ProfileID)
	assert.Equal(t, "citizen", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.Remaining(time.Now()).Seconds(), 5)
	assert.Equal(t, time.Duration(0), claims.Remaining(time.Now().Add(2*time.Hour)))

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateDocumentMetadata(t *testing.T) {
	assert.NoError(t, ValidateDocumentMetadata("aadhaar", map[string]string{"number": "123412341234"}))
	assert.Error(t, ValidateDocumentMetadata("aadhaar", map[string]string{"number": "1234"}))
	assert.NoError(t, ValidateDocumentMetadata("pan", map[string]string{"number": "abcde1234f"}))
	assert.Error(t, ValidateDocumentMetadata("PAN", map[string]string{"number": "ABCDE12345"}))
	assert.NoError(t, ValidateDocumentMetadata("address_proof", map[string]string{"number": "anything"}))
	assert.NoError(t, ValidateDocumentMetadata("aadhaar", nil))
}

func TestFormatValidationError(t *testing.T) {
	type request struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=3"`
		Token string `validate:"required,startswith=TKN-"`
	}

	err := ValidateStruct(request{Email: "nope", Name: "ab", Token: "X-1"})
	require.Error(t, err)

	details := FormatValidationError(err)
	assert.Equal(t, "Invalid email format", details["email"])
	assert.Equal(t, "name must be at least 3", details["name"])
	assert.Equal(t, "token must start with TKN-", details["token"])
}

func TestValidateForm(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "object",
		"required": ["survey_number"],
		"properties": {"survey_number": {"type": "string", "minLength": 3}}
	}`)

	problems, err := ValidateForm(schema, map[string]interface{}{"survey_number": "SY-204"})
	require.NoError(t, err)
	assert.Empty(t, problems)

	problems, err = ValidateForm(schema, nil)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "survey_number")

	problems, err = ValidateForm(nil, map[string]interface{}{"x": 1})
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestCheckSchema(t *testing.T) {
	assert.NoError(t, CheckSchema(nil))
	assert.NoError(t, CheckSchema(json.RawMessage(`{"type":"object"}`)))
	assert.Error(t, CheckSchema(json.RawMessage(`{"type":"not-a-type"}`)))
}
