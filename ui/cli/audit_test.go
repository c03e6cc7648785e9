// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

//nolint:errcheck
package cli

import (
	"strings"
	"testing"

	"github.com/toeirei/warden/internal/db"
)

func TestAuditCmd_CleanRegions(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1", "us-west-2")
	for _, srv := range servers {
		srv.Seed("/warden/operators", "alice.admin,bob.builder")
		srv.Seed("/warden/keys/alice.admin", testPubKey)
		srv.Seed("/warden/keys/bob.builder", testPubKey)
	}

	output := executeCommand(t, nil, "audit")

	if !strings.Contains(output, "keys and operator list agree") {
		t.Errorf("expected both regions to be consistent, got:\n%s", output)
	}
	if !strings.Contains(output, "No drift detected across 2 region(s).") {
		t.Errorf("expected the clean summary, got:\n%s", output)
	}

	entries, err := db.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("failed to read audit trail: %v", err)
	}
	if len(entries) == 0 || entries[0].Action != "AUDIT" {
		t.Errorf("expected an AUDIT audit entry, got %+v", entries)
	}
}

func TestAuditCmd_DetectsListDrift(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1", "us-west-2")
	servers["us-east-1"].Seed("/warden/operators", "alice.admin,bob.builder")
	servers["us-east-1"].Seed("/warden/keys/alice.admin", testPubKey)
	servers["us-east-1"].Seed("/warden/keys/bob.builder", testPubKey)
	servers["us-west-2"].Seed("/warden/operators", "alice.admin")
	servers["us-west-2"].Seed("/warden/keys/alice.admin", testPubKey)

	output, err := executeCommandWithError(t, nil, "audit")
	if err == nil {
		t.Fatal("expected audit to fail on diverged lists")
	}
	if !strings.Contains(output, "differs from us-east-1: bob.builder") {
		t.Errorf("expected the list drift finding, got:\n%s", output)
	}
}

func TestAuditCmd_DetectsKeylessOperator(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1")
	servers["us-east-1"].Seed("/warden/operators", "alice.admin,bob.builder")
	servers["us-east-1"].Seed("/warden/keys/alice.admin", testPubKey)

	output, err := executeCommandWithError(t, nil, "audit")
	if err == nil {
		t.Fatal("expected audit to fail on a keyless operator")
	}
	if !strings.Contains(output, "bob.builder is enrolled but has no stored key") {
		t.Errorf("expected the keyless finding, got:\n%s", output)
	}
}

func TestAuditCmd_DetectsUnlistedKey(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1")
	servers["us-east-1"].Seed("/warden/operators", "alice.admin")
	servers["us-east-1"].Seed("/warden/keys/alice.admin", testPubKey)
	servers["us-east-1"].Seed("/warden/keys/mallory.ops", testPubKey)

	output, err := executeCommandWithError(t, nil, "audit")
	if err == nil {
		t.Fatal("expected audit to fail on an unlisted key")
	}
	if !strings.Contains(output, "mallory.ops has a stored key but is not enrolled") {
		t.Errorf("expected the unlisted finding, got:\n%s", output)
	}
}

func TestHistoryCmd_Empty(t *testing.T) {
	setupTestDB(t)

	output := executeCommand(t, nil, "history")

	if !strings.Contains(output, "No audit log entries found.") {
		t.Errorf("expected the empty message, got:\n%s", output)
	}
}

func TestHistoryCmd_ShowsEntries(t *testing.T) {
	setupTestDB(t)
	if err := db.LogAction("SYNC", "set /warden/operators to [alice.admin] in us-east-1"); err != nil {
		t.Fatalf("failed to seed audit trail: %v", err)
	}

	output := executeCommand(t, nil, "history")

	if !strings.Contains(output, "SYNC") {
		t.Errorf("expected the action column, got:\n%s", output)
	}
	if !strings.Contains(output, "alice.admin") {
		t.Errorf("expected the details column, got:\n%s", output)
	}
}

func TestHistoryCmd_SearchFilters(t *testing.T) {
	setupTestDB(t)
	if err := db.LogAction("SYNC", "set /warden/operators to [alice.admin] in us-east-1"); err != nil {
		t.Fatalf("failed to seed audit trail: %v", err)
	}
	if err := db.LogAction("REMOVE_OPERATOR", "removed bob.builder (list only) in us-east-1"); err != nil {
		t.Fatalf("failed to seed audit trail: %v", err)
	}

	output := executeCommand(t, nil, "history", "remove_operator")

	if !strings.Contains(output, "bob.builder") {
		t.Errorf("expected the matching entry, got:\n%s", output)
	}
	if strings.Contains(output, "alice.admin") {
		t.Errorf("expected the SYNC entry to be filtered out, got:\n%s", output)
	}
}

func TestHistoryCmd_LimitTruncates(t *testing.T) {
	setupTestDB(t)
	for _, details := range []string{"entry-one marker", "entry-two marker", "entry-three marker"} {
		if err := db.LogAction("SYNC", details); err != nil {
			t.Fatalf("failed to seed audit trail: %v", err)
		}
	}

	output := executeCommand(t, nil, "history", "--limit", "2")

	if got := strings.Count(output, "marker"); got != 2 {
		t.Errorf("expected 2 entries with --limit 2, got %d:\n%s", got, output)
	}
}
