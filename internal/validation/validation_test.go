package validation

import (
	"strings"
	"testing"

	"smshub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookPayload(t *testing.T) {
	body := []byte(`{"message_id":"m1","from":"+15551234","to":"+447700900","ts":"2024-01-01T00:00:00Z","text":"hello"}`)

	payload, err := ParseWebhookPayload(body)
	require.NoError(t, err)
	assert.Equal(t, "m1", payload.MessageID)
	assert.Equal(t, "+15551234", payload.FromMSISDN)
	assert.Equal(t, "+447700900", payload.ToMSISDN)
	assert.Equal(t, "2024-01-01T00:00:00Z", payload.Timestamp)
	require.NotNil(t, payload.Text)
	assert.Equal(t, "hello", *payload.Text)
}

func TestParseWebhookPayloadTextOptional(t *testing.T) {
	body := []byte(`{"message_id":"m1","from":"+1","to":"+2","ts":"2024-01-01T00:00:00Z"}`)

	payload, err := ParseWebhookPayload(body)
	require.NoError(t, err)
	assert.Nil(t, payload.Text)
}

func TestParseWebhookPayloadMalformedJSON(t *testing.T) {
	_, err := ParseWebhookPayload([]byte(`{"message_id":`))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetCode(err))
}

func TestParseWebhookPayloadFieldFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty message_id", `{"message_id":"","from":"+1","to":"+2","ts":"2024-01-01T00:00:00Z"}`},
		{"missing message_id", `{"from":"+1","to":"+2","ts":"2024-01-01T00:00:00Z"}`},
		{"from without plus", `{"message_id":"m1","from":"1234","to":"+2","ts":"2024-01-01T00:00:00Z"}`},
		{"from with letters", `{"message_id":"m1","from":"+12a4","to":"+2","ts":"2024-01-01T00:00:00Z"}`},
		{"to without plus", `{"message_id":"m1","from":"+1","to":"2","ts":"2024-01-01T00:00:00Z"}`},
		{"ts without Z", `{"message_id":"m1","from":"+1","to":"+2","ts":"2024-01-01T00:00:00"}`},
		{"ts bare Z", `{"message_id":"m1","from":"+1","to":"+2","ts":"Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWebhookPayload([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeValidationFailed, errors.GetCode(err))
		})
	}
}

func TestValidateMSISDN(t *testing.T) {
	assert.Error(t, ValidateMSISDN("from", "1234"))
	assert.Error(t, ValidateMSISDN("from", "+"))
	assert.Error(t, ValidateMSISDN("from", "+12 34"))
	assert.NoError(t, ValidateMSISDN("from", "+1234"))
}

func TestValidateTimestamp(t *testing.T) {
	assert.Error(t, ValidateTimestamp("2024-01-01T00:00:00"))
	assert.Error(t, ValidateTimestamp(""))
	assert.Error(t, ValidateTimestamp("Z"))
	assert.NoError(t, ValidateTimestamp("2024-01-01T00:00:00Z"))
}

func TestValidateTextBoundary(t *testing.T) {
	atLimit := strings.Repeat("a", MaxTextLength)
	assert.NoError(t, ValidateText(&atLimit))

	overLimit := strings.Repeat("a", MaxTextLength+1)
	assert.Error(t, ValidateText(&overLimit))

	assert.NoError(t, ValidateText(nil))
}

func TestValidateTextCountsRunes(t *testing.T) {
	// multi-byte characters count once each
	atLimit := strings.Repeat("é", MaxTextLength)
	assert.NoError(t, ValidateText(&atLimit))
}
