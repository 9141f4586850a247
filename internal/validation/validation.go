package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"smshub/internal/errors"
	"smshub/internal/models"
)

// MaxTextLength is the longest accepted message text, in characters.
const MaxTextLength = 4096

var msisdnPattern = regexp.MustCompile(`^\+[0-9]+$`)

// ParseWebhookPayload decodes and validates an inbound webhook body.
// Every failure is reported as a VALIDATION_FAILED error naming the
// offending field; nothing reaches storage on failure.
func ParseWebhookPayload(rawBody []byte) (*models.WebhookPayload, error) {
	var payload models.WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidationFailed, "malformed JSON body").
			WithUserMessage("request body must be valid JSON")
	}

	if err := ValidateMessageID(payload.MessageID); err != nil {
		return nil, err
	}
	if err := ValidateMSISDN("from", payload.FromMSISDN); err != nil {
		return nil, err
	}
	if err := ValidateMSISDN("to", payload.ToMSISDN); err != nil {
		return nil, err
	}
	if err := ValidateTimestamp(payload.Timestamp); err != nil {
		return nil, err
	}
	if err := ValidateText(payload.Text); err != nil {
		return nil, err
	}

	return &payload, nil
}

// ValidateMessageID rejects empty message identifiers.
func ValidateMessageID(messageID string) error {
	if messageID == "" {
		return errors.New(errors.ErrCodeValidationFailed, "message_id cannot be empty").
			WithUserMessage("message_id cannot be empty").
			WithContext("field", "message_id")
	}
	return nil
}

// ValidateMSISDN checks E.164 shape: a plus sign followed by digits only.
func ValidateMSISDN(field, msisdn string) error {
	if !msisdnPattern.MatchString(msisdn) {
		return errors.New(errors.ErrCodeValidationFailed,
			fmt.Sprintf("%s is not a valid E.164 number", field)).
			WithUserMessage(fmt.Sprintf("%s must match +<digits>", field)).
			WithContext("field", field)
	}
	return nil
}

// ValidateTimestamp requires a UTC designator suffix. No calendar validation
// happens here; the value stays an opaque sortable string.
func ValidateTimestamp(ts string) error {
	if len(ts) < 2 || !strings.HasSuffix(ts, "Z") {
		return errors.New(errors.ErrCodeValidationFailed, "ts must be UTC with Z suffix").
			WithUserMessage("timestamp must be UTC with Z suffix").
			WithContext("field", "ts")
	}
	return nil
}

// ValidateText bounds the optional message text.
func ValidateText(text *string) error {
	if text == nil {
		return nil
	}
	if utf8.RuneCountInString(*text) > MaxTextLength {
		return errors.New(errors.ErrCodeValidationFailed,
			fmt.Sprintf("text too long (max %d characters)", MaxTextLength)).
			WithUserMessage(fmt.Sprintf("text must not exceed %d characters", MaxTextLength)).
			WithContext("field", "text")
	}
	return nil
}
