package repository

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Identifiers that collide with PostgreSQL keywords are rejected unquoted, so
// a single bad column name makes migrate fail and the store unconstructible.
var pgKeywords = map[string]bool{
	"binary": true, "order": true, "user": true, "group": true,
	"primary": true, "references": true, "check": true, "default": true,
	"desc": true, "limit": true, "offset": true, "collation": true,
	"column": true, "table": true, "select": true, "where": true,
	"constraint": true, "grant": true, "between": true, "cross": true,
}

var columnPattern = regexp.MustCompile(`(?m)^\s*([a-z_]+)\s+(?:TEXT|JSONB|BYTEA)`)

func TestSchemaAvoidsPostgresKeywords(t *testing.T) {
	columns := 0
	for _, stmt := range schemaStatements {
		for _, m := range columnPattern.FindAllStringSubmatch(stmt, -1) {
			columns++
			assert.Falsef(t, pgKeywords[m[1]], "column %q needs quoting in: %s", m[1], stmt)
		}
	}
	require.NotZero(t, columns)
}

func TestSchemaStoresPictureBytesUnderSafeName(t *testing.T) {
	var pictures string
	for _, stmt := range schemaStatements {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS pictures") {
			pictures = stmt
		}
	}
	require.NotEmpty(t, pictures)
	assert.Contains(t, pictures, "picture_binary BYTEA")
}
