package migrations

import (
	_ "embed"
)

//go:embed schema.sql
var initialSchema string

// InitialSchema returns the bootstrap database schema. The schema is
// embedded so the binary carries it regardless of working directory.
func InitialSchema() string {
	return initialSchema
}
