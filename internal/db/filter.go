package db

import (
	"strings"

	"github.com/toeirei/warden/internal/model"
)

// FilterAuditEntriesByTokens narrows entries to those matching every token.
// A token matches when it appears, case-insensitively, in the username, the
// action or the details. Blank tokens are ignored; with no usable tokens the
// input comes back untouched.
func FilterAuditEntriesByTokens(entries []model.AuditLogEntry, tokens []string) []model.AuditLogEntry {
	needles := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok = strings.ToLower(strings.TrimSpace(tok)); tok != "" {
			needles = append(needles, tok)
		}
	}
	if len(needles) == 0 {
		return entries
	}

	out := make([]model.AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		if auditEntryMatches(e, needles) {
			out = append(out, e)
		}
	}
	return out
}

func auditEntryMatches(e model.AuditLogEntry, needles []string) bool {
	// The NUL separator keeps a needle from straddling two fields.
	haystack := strings.ToLower(e.Username + "\x00" + e.Action + "\x00" + e.Details)
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			return false
		}
	}
	return true
}
