// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/uptrace/bun"
)

func TestIsInitialized_TracksStore(t *testing.T) {
	orig := store
	defer func() { store = orig }()

	store = nil
	if IsInitialized() {
		t.Fatal("IsInitialized must be false with no store installed")
	}

	WithTestStore(t, func(s *SqliteStore) {
		if !IsInitialized() {
			t.Fatal("IsInitialized must be true once a store is installed")
		}
	})
}

func TestBeginTx_InsertVisibleAfterCommit(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		ctx := context.Background()
		tx, err := BeginTx(ctx, s.bun, nil)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		if _, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", "tester", "SYNC", "region eu-central-1"); err != nil {
			t.Fatalf("insert inside transaction failed: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("tx.Commit failed: %v", err)
		}

		entries, err := GetAllAuditLogEntries()
		if err != nil {
			t.Fatalf("GetAllAuditLogEntries failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected the committed row, got %d entries", len(entries))
		}
	})
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		ctx := context.Background()
		if err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
			_, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", "tester", "ADD_OPERATOR", "alice")
			return err
		}); err != nil {
			t.Fatalf("WithTx failed: %v", err)
		}

		entries, err := s.GetAllAuditLogEntries()
		if err != nil {
			t.Fatalf("GetAllAuditLogEntries failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected one committed entry, got %d", len(entries))
		}
	})
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		ctx := context.Background()
		boom := errors.New("boom")

		err := WithTx(ctx, s.bun, func(ctx context.Context, tx bun.Tx) error {
			if _, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", "tester", "act", "d"); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected the callback error, got: %v", err)
		}

		entries, err := s.GetAllAuditLogEntries()
		if err != nil {
			t.Fatalf("GetAllAuditLogEntries failed: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected rollback to discard the insert, found %d rows", len(entries))
		}
	})
}

func TestQueryRawInto(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		ctx := context.Background()
		if _, err := ExecRaw(ctx, s.bun, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", "tester", "act", "d"); err != nil {
			t.Fatalf("ExecRaw failed: %v", err)
		}

		var count int
		if err := QueryRawInto(ctx, s.bun, &count, "SELECT COUNT(*) FROM audit_log"); err != nil {
			t.Fatalf("QueryRawInto failed: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected count 1, got %d", count)
		}
	})
}
