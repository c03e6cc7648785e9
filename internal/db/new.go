package db

// New opens a Store for the given backend and connection string and installs
// it as the package default consumed by the audit helpers (LogAction,
// GetAllAuditLogEntries and friends). Integration tests and tools use it to
// reach alternative backends without going through the CLI's InitDB path.
func New(dbType, dsn string) (Store, error) {
	s, err := NewStoreFromDSN(dbType, dsn)
	if err != nil {
		return nil, err
	}
	store = s
	return s, nil
}
