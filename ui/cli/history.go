// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/toeirei/warden/internal/db"
	"github.com/toeirei/warden/internal/model"
)

// historyCmd represents the 'history' command.
// It prints the local audit trail, most recent first, with optional
// free-text filtering.
var historyCmd = &cobra.Command{
	Use:   "history [search terms...]",
	Short: "Show the local audit trail of operator changes",
	Long: `Displays the audit trail Warden keeps of every mutating command, most
recent first. Any arguments are treated as search tokens matched against the
username, action, and details columns.

Examples:
  warden history
  warden history first.last
  warden history REMOVE_OPERATOR us-east-1`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []model.AuditLogEntry
		var err error
		if len(args) > 0 {
			entries, err = db.SearchAuditLogEntries(strings.Join(args, " "))
		} else {
			entries, err = db.GetAllAuditLogEntries()
		}
		if err != nil {
			return fmt.Errorf("failed to read audit trail: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No audit log entries found.")
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		// Display as table
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tUSER\tACTION\tDETAILS")
		fmt.Fprintln(w, "---------\t----\t------\t-------")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp, e.Username, e.Action, e.Details)
		}
		w.Flush()
		return nil
	},
}

func init() {
	if historyCmd.Flags().Lookup("limit") == nil {
		historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many entries (0 means all)")
	}
}
