package database

import (
	"strings"
	"testing"
)

func TestStatements(t *testing.T) {
	stmts := Statements()
	if len(stmts) != 4 {
		t.Fatalf("got %d statements, want 4", len(stmts))
	}
	for i, table := range []string{"users", "refresh_tokens", "properties", "bookings"} {
		if !strings.HasPrefix(stmts[i], "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("statement %d: want table %s, got %.60q", i, table, stmts[i])
		}
	}
}
