// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"
)

// openSqliteStore builds a store and hands back its concrete type for pool
// introspection.
func openSqliteStore(t *testing.T, dsn string) *SqliteStore {
	t.Helper()
	s, err := NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	ss, ok := s.(*SqliteStore)
	if !ok {
		t.Fatalf("want *SqliteStore, got %T", s)
	}
	t.Cleanup(func() { _ = ss.Close() })
	return ss
}

func TestNewStoreFromDSN_DefaultPoolSize(t *testing.T) {
	// Neutralize any pool knobs the environment carries.
	t.Setenv("WARDEN_DB_MAX_OPEN_CONNS", "")
	t.Setenv("WARDEN_DB_MAX_IDLE_CONNS", "")

	ss := openSqliteStore(t, "file::memory:?cache=shared")
	if got := ss.BunDB().DB.Stats().MaxOpenConnections; got != 25 {
		t.Fatalf("MaxOpenConnections = %d, want the built-in default 25", got)
	}
}

func TestNewStoreFromDSN_PoolEnvOverride(t *testing.T) {
	t.Setenv("WARDEN_DB_MAX_OPEN_CONNS", "7")
	t.Setenv("WARDEN_DB_MAX_IDLE_CONNS", "3")

	ss := openSqliteStore(t, "file:pool_override?mode=memory&cache=shared")
	if got := ss.BunDB().DB.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("MaxOpenConnections = %d, want the override 7", got)
	}
}

func TestNewStoreFromDSN_PlainMemoryClampsPool(t *testing.T) {
	t.Setenv("WARDEN_DB_MAX_OPEN_CONNS", "")
	t.Setenv("WARDEN_DB_MAX_IDLE_CONNS", "")

	// A bare :memory: DSN gives every pooled connection its own private
	// database, so the pool has to collapse to a single connection.
	ss := openSqliteStore(t, ":memory:")
	if got := ss.BunDB().DB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("MaxOpenConnections = %d, want 1 for :memory:", got)
	}
}
