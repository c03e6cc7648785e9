package db

import (
	"github.com/toeirei/warden/internal/model"
	"github.com/uptrace/bun"
)

// AuditSearcher is the read side of the audit trail. Code that only displays
// history depends on this rather than the full Store.
type AuditSearcher interface {
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	SearchAuditLogEntries(query string) ([]model.AuditLogEntry, error)
}

// AuditWriter is the append side of the audit trail.
type AuditWriter interface {
	LogAction(action string, details string) error
}

// BunAuditSearcher reads the audit trail through a raw Bun handle.
type BunAuditSearcher struct {
	bdb *bun.DB
}

// NewBunAuditSearcher wraps bdb in an AuditSearcher.
func NewBunAuditSearcher(bdb *bun.DB) AuditSearcher {
	return &BunAuditSearcher{bdb: bdb}
}

// NewAuditSearcherFromStore borrows the store's Bun handle for read-only
// audit access.
func NewAuditSearcherFromStore(s Store) AuditSearcher {
	return NewBunAuditSearcher(s.BunDB())
}

func (s *BunAuditSearcher) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bdb)
}

func (s *BunAuditSearcher) SearchAuditLogEntries(q string) ([]model.AuditLogEntry, error) {
	return SearchAuditLogEntriesBun(s.bdb, q)
}

// Test seams. When set, the package-level wrappers route audit reads and
// writes through these instead of the store.
var (
	defaultAuditSearcher AuditSearcher
	defaultAuditWriter   AuditWriter
)

// DefaultAuditSearcher returns the injected AuditSearcher, or nil when none
// is set; nil means read from the package store.
func DefaultAuditSearcher() AuditSearcher {
	return defaultAuditSearcher
}

// SetDefaultAuditSearcher installs the searcher returned by
// DefaultAuditSearcher. Pass nil to route reads back to the store.
func SetDefaultAuditSearcher(s AuditSearcher) {
	defaultAuditSearcher = s
}

// DefaultAuditWriter returns the injected AuditWriter, or nil when none is
// set.
func DefaultAuditWriter() AuditWriter {
	return defaultAuditWriter
}

// SetDefaultAuditWriter installs the writer used by LogAction, letting tests
// observe or swallow audit writes. Pass nil to write to the store again.
func SetDefaultAuditWriter(w AuditWriter) {
	defaultAuditWriter = w
}
