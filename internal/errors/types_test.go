package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      New(ErrCodeValidationFailed, "bad payload"),
			expected: "VALIDATION_FAILED: bad payload",
		},
		{
			name:     "with cause",
			err:      Wrap(fmt.Errorf("disk full"), ErrCodeDatabaseQuery, "insert failed"),
			expected: "DATABASE_QUERY: insert failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, ErrCodeDatabaseConnection, "connect failed")
	assert.Equal(t, cause, err.Unwrap())

	assert.Nil(t, New(ErrCodeInternalError, "oops").Unwrap())
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeValidationFailed, "bad field").
		WithContext("field", "from_msisdn").
		WithContext("value", "1234")

	assert.Equal(t, "from_msisdn", err.Context["field"])
	assert.Equal(t, "1234", err.Context["value"])
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeAuthentication, GetCode(New(ErrCodeAuthentication, "bad signature")))
	assert.Equal(t, ErrCodeInternalError, GetCode(fmt.Errorf("plain error")))
}

func TestGetUserMessage(t *testing.T) {
	err := New(ErrCodeValidationFailed, "ts missing Z suffix").
		WithUserMessage("timestamp must be UTC with Z suffix")
	assert.Equal(t, "timestamp must be UTC with Z suffix", GetUserMessage(err))

	assert.Equal(t, "An internal error occurred", GetUserMessage(fmt.Errorf("boom")))
	assert.Equal(t, "An internal error occurred", GetUserMessage(New(ErrCodeInternalError, "boom")))
}
