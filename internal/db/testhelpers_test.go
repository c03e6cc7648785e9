// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"
)

// WithTestStore runs fn against a fresh in-memory sqlite store named after
// the test, then puts the package globals back the way they were.
func WithTestStore(t *testing.T, fn func(s *SqliteStore)) {
	t.Helper()

	prevStore := store
	prevDefaultAuditSearcher := defaultAuditSearcher
	prevDefaultAuditWriter := defaultAuditWriter

	// Shared cache keeps the schema visible across pooled connections.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	s, ok := store.(*SqliteStore)
	if !ok {
		t.Fatalf("InitDB installed a %T, want *SqliteStore", store)
	}

	defer func() {
		store = prevStore
		defaultAuditSearcher = prevDefaultAuditSearcher
		defaultAuditWriter = prevDefaultAuditWriter
	}()

	fn(s)
}

// WithAuditWriter swaps in w as the package AuditWriter while fn runs.
func WithAuditWriter(t *testing.T, w AuditWriter, fn func()) {
	t.Helper()
	prev := defaultAuditWriter
	defaultAuditWriter = w
	defer func() { defaultAuditWriter = prev }()
	fn()
}
