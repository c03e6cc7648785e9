// Package db is Warden's data-access layer: the audit trail store, its
// migrations, and the seams the rest of the code uses to reach it.
//
// A package-level Store (installed by InitDB) wraps a Bun connection to
// SQLite, Postgres or MySQL. Callers outside this package never touch
// *sql.DB or *bun.DB; they go through the package-level wrappers or one of
// the narrow interfaces below.
//
// Injection seams
//   - `DefaultAuditWriter` / `DefaultAuditSearcher` hand back the live store
//     once `InitDB` has run, or whatever a test installed instead.
//   - `SetDefaultAuditWriter` / `SetDefaultAuditSearcher` let tests swap in
//     fakes satisfying `AuditWriter` / `AuditSearcher` without a database.
//
// Audit trail
//   - Mutating commands record rows through `LogAction`; readers use
//     `GetAllAuditLogEntries` and `SearchAuditLogEntries`.
//   - The raw Bun plumbing behind those lives in `bun_adapter.go` and
//     `search.go` and is not meant to be called from outside the package.
//
// Testing
//   - `db.InitDB("sqlite", "file:name?mode=memory&cache=shared")` gives a
//     test real migrations and SQL semantics.
//   - Tests that only need to observe writes should inject an `AuditWriter`
//     via `SetDefaultAuditWriter` and skip the database entirely.
package db
