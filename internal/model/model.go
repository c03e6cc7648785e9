package model

// OperatorStatus describes where a single operator username is currently
// provisioned. Present maps region name to whether the username appears in
// that region's parameter.
type OperatorStatus struct {
	Username string
	Present  map[string]bool
}

// Everywhere reports whether the operator is present in every region checked.
func (o OperatorStatus) Everywhere() bool {
	if len(o.Present) == 0 {
		return false
	}
	for _, ok := range o.Present {
		if !ok {
			return false
		}
	}
	return true
}

// AuditLogEntry represents a single record from the local audit trail.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}
