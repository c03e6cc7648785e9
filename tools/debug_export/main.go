// debug_export is a throwaway probe that exercises the audit trail store
// end to end against an in-memory SQLite database: init, seed, dump, search.
// Useful when debugging migrations or search behavior without touching a
// real warden.db.
package main

import (
	"fmt"

	"github.com/toeirei/warden/internal/db"
	"github.com/toeirei/warden/internal/i18n"
)

func main() {
	dsn := "file:auditprobe?mode=memory&cache=shared"
	i18n.Init("en")
	if err := db.InitDB("sqlite", dsn); err != nil {
		panic(err)
	}

	seed := []struct{ action, details string }{
		{"SYNC", "set /warden/operators to [alice.admin,bob.builder] in us-east-1, us-west-2"},
		{"ADD_OPERATOR", "added carol.ops (SHA256:deadbeef) in us-east-1, us-west-2"},
		{"REMOVE_OPERATOR", "removed bob.builder (list only) in us-east-1, us-west-2"},
	}
	for _, s := range seed {
		if err := db.LogAction(s.action, s.details); err != nil {
			panic(err)
		}
	}

	entries, err := db.GetAllAuditLogEntries()
	if err != nil {
		panic(err)
	}
	fmt.Printf("audit entries: %d\n", len(entries))
	for _, e := range entries {
		fmt.Printf("entry: %+v\n", e)
	}

	matches, err := db.SearchAuditLogEntries("carol.ops")
	if err != nil {
		panic(err)
	}
	fmt.Printf("search matches: %d\n", len(matches))
	for _, e := range matches {
		fmt.Printf("match: %+v\n", e)
	}
}
