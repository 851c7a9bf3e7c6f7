package storage

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// LowerFunc is a SQL function that lower-cases text with Unicode rules. SQLite's own
// LOWER only folds ASCII, so "Élodie" would never match "élodie".
const LowerFunc = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(LowerFunc, 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a lower-cased LIKE pattern matching s anywhere in a value.
// Use it with `unicode_lower(col) LIKE ? ESCAPE '\'`.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
