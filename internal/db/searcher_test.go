// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"

	"github.com/toeirei/warden/internal/model"
)

type fakeAuditSearcher struct{}

func (f *fakeAuditSearcher) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return []model.AuditLogEntry{{ID: 1, Action: "FAKE"}}, nil
}

func (f *fakeAuditSearcher) SearchAuditLogEntries(q string) ([]model.AuditLogEntry, error) {
	return nil, nil
}

func TestDefaultAuditSearcherInjection(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		if err := s.LogAction("SYNC", "x"); err != nil {
			t.Fatalf("LogAction failed: %v", err)
		}

		// Without injection the package helper reads from the store.
		SetDefaultAuditSearcher(nil)
		entries, err := GetAllAuditLogEntries()
		if err != nil {
			t.Fatalf("GetAllAuditLogEntries failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Action != "SYNC" {
			t.Fatalf("expected the stored entry, got: %v", entries)
		}

		// With injection the fake wins.
		SetDefaultAuditSearcher(&fakeAuditSearcher{})
		entries, err = GetAllAuditLogEntries()
		if err != nil {
			t.Fatalf("GetAllAuditLogEntries failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Action != "FAKE" {
			t.Fatalf("expected the fake entry, got: %v", entries)
		}
	})
}

func TestBunAuditSearcherFromStore(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		if err := s.LogAction("ADD_OPERATOR", "username: jane.doe"); err != nil {
			t.Fatalf("LogAction failed: %v", err)
		}

		searcher := NewAuditSearcherFromStore(s)
		entries, err := searcher.SearchAuditLogEntries("jane.doe")
		if err != nil {
			t.Fatalf("SearchAuditLogEntries failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
	})
}
