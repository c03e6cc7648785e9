// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

//nolint:errcheck
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/toeirei/warden/internal/db"
	"github.com/toeirei/warden/internal/i18n"
	"github.com/toeirei/warden/internal/store"
	"github.com/toeirei/warden/internal/store/storetest"
)

const testPubKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAII4GpCvqUUYUJlx6d1kpUO9k/t4VhSYsf0yE0/QTqDzC alice.admin@laptop"

// setupTestDB points viper at a fresh in-memory audit database, brings i18n
// up in English and clears sticky command flags, giving each test a clean
// slate.
func setupTestDB(t *testing.T) {
	t.Helper()

	// Drop whatever configuration an earlier test loaded, and keep the
	// first-run config write inside the test sandbox.
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// One named in-memory database per call. The file: URI with
	// mode=memory&cache=shared lets every pooled connection see the same
	// data, and nothing touches disk, so Windows file locks never bite.
	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())

	viper.Set("database.type", "sqlite")
	viper.Set("database.dsn", dsn)
	viper.Set("language", "en") // assertions match the English catalog

	i18n.Init("en")
	if err := db.InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB for test database: %v", err)
	}

	resetCommandFlags()
}

// resetCommandFlags clears sticky flag values on the package-level commands.
// Cobra keeps flag values across Execute calls, so without this a --file or
// --full from one test would leak into the next.
func resetCommandFlags() {
	registerOperatorCommands()
	_ = syncCmd.Flags().Set("file", "")
	_ = syncCmd.Flags().Set("yes", "false")
	_ = addCmd.Flags().Set("key-file", "")
	_ = addCmd.Flags().Set("overwrite", "false")
	_ = removeCmd.Flags().Set("full", "false")
	_ = removeCmd.Flags().Set("yes", "false")
	_ = showKeyCmd.Flags().Set("copy", "false")
	_ = historyCmd.Flags().Set("limit", "0")
	fullRestore = false
}

// setupTestStores replaces the store factory with in-memory parameter store
// simulators and configures the given regions. The servers are returned
// keyed by region for seeding and assertions.
func setupTestStores(t *testing.T, regions ...string) map[string]*storetest.Server {
	t.Helper()

	servers := make(map[string]*storetest.Server, len(regions))
	for _, region := range regions {
		servers[region] = storetest.NewServer()
	}

	orig := newStoreFunc
	newStoreFunc = func(ctx context.Context, region string) (store.Store, error) {
		srv, ok := servers[region]
		if !ok {
			return nil, fmt.Errorf("no simulator for region %s", region)
		}
		return store.NewSSMStoreWithClient(region, srv), nil
	}
	t.Cleanup(func() { newStoreFunc = orig })

	viper.Set("regions", regions)
	return servers
}

// executeCommand runs warden with the given arguments and returns everything
// it printed. A non-nil stdin feeds interactive prompts.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) string {
	t.Helper()

	out, err := executeCommandWithError(t, stdin, args...)
	if err != nil {
		t.Fatalf("command execution failed: %v\noutput:\n%s", err, out)
	}
	return out
}

// executeCommandWithError is like executeCommand but hands the execution
// error back to the caller, for tests that expect a non-zero exit.
func executeCommandWithError(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	// Both stdout and stderr go through one pipe; assertions see command
	// output and log lines alike.
	oldOut := os.Stdout
	oldErr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w
	// The charm logger holds its own writer, so it needs pointing at the
	// pipe separately.
	log.SetOutput(w)
	defer log.SetOutput(os.Stderr)
	defer func() {
		os.Stdout = oldOut
		os.Stderr = oldErr
	}()

	if stdin != nil {
		oldIn := os.Stdin
		os.Stdin = stdin.(*os.File)
		defer func() {
			os.Stdin = oldIn
		}()
	}

	// A fresh command tree per execution keeps cobra state out of the next
	// test.
	root := NewRootCmd()
	root.SetArgs(args)

	execErr := root.Execute()

	w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("reading captured output: %v", err)
	}

	return buf.String(), execErr
}

// stdinFile writes content to a temp file and returns it opened for reading,
// suitable for mocking interactive stdin.
func stdinFile(t *testing.T, content string) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write stdin file: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open stdin file: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestSyncCmd_CreatesOperatorLists(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1", "us-west-2")

	output := executeCommand(t, nil, "sync", "bob.builder", "alice.admin")

	for region, srv := range servers {
		value, ok := srv.Value("/warden/operators")
		if !ok {
			t.Fatalf("operator list was not created in %s", region)
		}
		if value != "alice.admin,bob.builder" {
			t.Errorf("unexpected operator list in %s: %q", region, value)
		}
	}
	if !strings.Contains(output, "created operator list") {
		t.Errorf("expected creation message, got:\n%s", output)
	}
}

func TestSyncCmd_NoWriteWhenInSync(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1")
	servers["us-east-1"].Seed("/warden/operators", "alice.admin")

	output := executeCommand(t, nil, "sync", "alice.admin")

	if got := servers["us-east-1"].WriteCalls(); got != 0 {
		t.Errorf("expected no writes for an in-sync region, got %d", got)
	}
	if !strings.Contains(output, "already in sync") {
		t.Errorf("expected in-sync message, got:\n%s", output)
	}
}

func TestSyncCmd_UpdatesDivergedRegion(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1", "us-west-2")
	servers["us-east-1"].Seed("/warden/operators", "alice.admin,carol.ops")
	servers["us-west-2"].Seed("/warden/operators", "alice.admin")

	executeCommand(t, nil, "sync", "alice.admin")

	if value, _ := servers["us-east-1"].Value("/warden/operators"); value != "alice.admin" {
		t.Errorf("us-east-1 not reconciled, got %q", value)
	}
	if got := servers["us-west-2"].WriteCalls(); got != 0 {
		t.Errorf("expected no writes in already-synced us-west-2, got %d", got)
	}
}

func TestSyncCmd_EmptySetWipesAfterConfirmation(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1")
	servers["us-east-1"].Seed("/warden/operators", "alice.admin")

	output := executeCommand(t, stdinFile(t, "yes\n"), "sync")

	if _, ok := servers["us-east-1"].Value("/warden/operators"); ok {
		t.Error("operator list should have been deleted")
	}
	if !strings.Contains(output, "parameter deleted") {
		t.Errorf("expected deletion message, got:\n%s", output)
	}
}

func TestSyncCmd_EmptySetCancelled(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1")
	servers["us-east-1"].Seed("/warden/operators", "alice.admin")

	output := executeCommand(t, stdinFile(t, "no\n"), "sync")

	if value, _ := servers["us-east-1"].Value("/warden/operators"); value != "alice.admin" {
		t.Errorf("operator list should be untouched after cancel, got %q", value)
	}
	if !strings.Contains(output, "Sync cancelled.") {
		t.Errorf("expected cancel message, got:\n%s", output)
	}
}

func TestSyncCmd_EmptySetWithYesFlag(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1")
	servers["us-east-1"].Seed("/warden/operators", "alice.admin")

	executeCommand(t, nil, "sync", "--yes")

	if _, ok := servers["us-east-1"].Value("/warden/operators"); ok {
		t.Error("operator list should have been deleted without prompting")
	}
}

func TestSyncCmd_FromFile(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1")

	path := filepath.Join(t.TempDir(), "operators.txt")
	content := "# operators on duty\nalice.admin\n\nbob.builder\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write username file: %v", err)
	}

	executeCommand(t, nil, "sync", "--file", path)

	if value, _ := servers["us-east-1"].Value("/warden/operators"); value != "alice.admin,bob.builder" {
		t.Errorf("unexpected operator list from file sync: %q", value)
	}
}

func TestSyncCmd_RejectsInvalidUsername(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1")

	_, err := executeCommandWithError(t, nil, "sync", "root")
	if err == nil {
		t.Fatal("expected an error for a username without a dot")
	}
	if got := servers["us-east-1"].Calls(); got != 0 {
		t.Errorf("store should not be touched on validation failure, got %d calls", got)
	}
}

func TestSyncCmd_ReportsFailedRegion(t *testing.T) {
	setupTestDB(t)
	servers := setupTestStores(t, "us-east-1", "us-west-2")
	servers["us-east-1"].ProducePermissionError(true)

	output, err := executeCommandWithError(t, nil, "sync", "alice.admin")
	if err == nil {
		t.Fatal("expected an error when one region fails")
	}
	// The healthy region must still have been synced.
	if value, _ := servers["us-west-2"].Value("/warden/operators"); value != "alice.admin" {
		t.Errorf("us-west-2 should have been synced despite us-east-1 failing, got %q", value)
	}
	if !strings.Contains(output, "access denied") {
		t.Errorf("expected the region error in output, got:\n%s", output)
	}
}

func TestSyncCmd_WritesAuditTrail(t *testing.T) {
	setupTestDB(t)
	setupTestStores(t, "us-east-1")

	executeCommand(t, nil, "sync", "alice.admin")

	entries, err := db.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("failed to read audit trail: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected an audit trail entry after sync")
	}
	if entries[0].Action != "SYNC" {
		t.Errorf("expected SYNC action, got %q", entries[0].Action)
	}
	if !strings.Contains(entries[0].Details, "alice.admin") {
		t.Errorf("expected details to name the operator, got %q", entries[0].Details)
	}
}
