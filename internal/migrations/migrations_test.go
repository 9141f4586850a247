package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialSchema(t *testing.T) {
	schema := InitialSchema()
	assert.True(t, strings.Contains(schema, "CREATE TABLE IF NOT EXISTS messages"))
	assert.True(t, strings.Contains(schema, "message_id TEXT PRIMARY KEY"))
	assert.True(t, strings.Contains(schema, "created_at TEXT NOT NULL"))
}
