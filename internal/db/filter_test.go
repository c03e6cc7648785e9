// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"

	"github.com/toeirei/warden/internal/model"
)

func TestFilterAuditEntriesByTokens(t *testing.T) {
	entries := []model.AuditLogEntry{
		{ID: 1, Username: "deploy", Action: "ADD_OPERATOR", Details: "username: jane.doe"},
		{ID: 2, Username: "admin", Action: "REMOVE_OPERATOR", Details: "username: john.smith"},
		{ID: 3, Username: "root", Action: "SYNC", Details: "regions: eu-central-1"},
	}

	cases := []struct {
		name    string
		tokens  []string
		wantIDs []int
	}{
		{name: "nil tokens keep everything", tokens: nil, wantIDs: []int{1, 2, 3}},
		{name: "empty tokens keep everything", tokens: []string{}, wantIDs: []int{1, 2, 3}},
		{name: "username match", tokens: []string{"deploy"}, wantIDs: []int{1}},
		{name: "action match ignores case", tokens: []string{"sync"}, wantIDs: []int{3}},
		{name: "details match", tokens: []string{"jane.doe"}, wantIDs: []int{1}},
		{name: "uppercase token still matches", tokens: []string{"ADMIN"}, wantIDs: []int{2}},
		{name: "every token must hit", tokens: []string{"admin", "remove"}, wantIDs: []int{2}},
		{name: "conflicting tokens match nothing", tokens: []string{"admin", "sync"}, wantIDs: nil},
		{name: "blank tokens are skipped", tokens: []string{" ", "root"}, wantIDs: []int{3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterAuditEntriesByTokens(entries, tc.tokens)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d entries, want %d: %v", len(got), len(tc.wantIDs), got)
			}
			for i, e := range got {
				if e.ID != tc.wantIDs[i] {
					t.Fatalf("entry %d has ID %d, want %d", i, e.ID, tc.wantIDs[i])
				}
			}
		})
	}
}
