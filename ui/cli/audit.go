// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/toeirei/warden/internal/db"
	"github.com/toeirei/warden/internal/i18n"
	"github.com/toeirei/warden/internal/logging"
	"github.com/toeirei/warden/internal/model"
)

var (
	auditOkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))  // green
	auditBadStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // bright red
	auditWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // orange
	auditHeaderStyle = lipgloss.NewStyle().Bold(true)
	auditSubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // muted gray
)

// auditCmd represents the 'audit' command.
// It checks the configured regions for two kinds of drift: operator lists
// that differ between regions, and lists that disagree with the stored keys.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit regions for operator drift",
	Long: `Reads every configured region and reports two kinds of drift:

  - operator lists that differ between regions
  - operators enrolled without a stored SSH key, or keys stored for
    usernames missing from the operator list

The command exits non-zero when any drift or read error is found, so it can
gate CI jobs and scheduled checks.`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newOperatorManager(cmd)
		if err != nil {
			return err
		}

		problems := 0

		// Cross-region list comparison first: every region against the
		// first readable one.
		fmt.Println(auditHeaderStyle.Render(i18n.T("audit.cli_lists_header")))
		listOutcomes := mgr.Operators(cmd.Context())
		var reference *model.UserList
		var referenceRegion string
		for _, out := range listOutcomes {
			if out.Err == nil {
				ref := out.Users
				reference = &ref
				referenceRegion = out.Region
				break
			}
		}
		for _, out := range listOutcomes {
			switch {
			case out.Err != nil:
				problems++
				fmt.Printf("  %s %s: %v\n", auditBadStyle.Render("✗"), out.Region, out.Err)
			case !out.Exists:
				fmt.Printf("  %s %s: %s\n", auditSubtleStyle.Render("·"), out.Region, i18n.T("audit.cli_list_missing"))
			default:
				fmt.Printf("  %s %s: %s\n", auditOkStyle.Render("✓"), out.Region, out.Users.String())
			}
			if reference != nil && out.Err == nil && out.Region != referenceRegion && !out.Users.Equal(*reference) {
				problems++
				added, removed := out.Users.Diff(*reference)
				fmt.Printf("    %s\n", auditBadStyle.Render(i18n.T("audit.cli_list_drift", referenceRegion, strings.Join(append(added, removed...), ", "))))
			}
		}

		// Per-region consistency between list and stored keys.
		fmt.Println(auditHeaderStyle.Render(i18n.T("audit.cli_keys_header")))
		for _, out := range mgr.Audit(cmd.Context()) {
			if out.Err != nil {
				problems++
				fmt.Printf("  %s %s: %v\n", auditBadStyle.Render("✗"), out.Region, out.Err)
				continue
			}
			if len(out.Unlisted) == 0 && len(out.Keyless) == 0 {
				fmt.Printf("  %s %s: %s\n", auditOkStyle.Render("✓"), out.Region, i18n.T("audit.cli_region_consistent"))
				continue
			}
			problems += len(out.Unlisted) + len(out.Keyless)
			for _, username := range out.Keyless {
				fmt.Printf("  %s %s: %s\n", auditWarnStyle.Render("!"), out.Region, i18n.T("audit.cli_keyless", username))
			}
			for _, username := range out.Unlisted {
				fmt.Printf("  %s %s: %s\n", auditWarnStyle.Render("!"), out.Region, i18n.T("audit.cli_unlisted", username))
			}
		}

		details := fmt.Sprintf("audited %s: %d finding(s)", strings.Join(mgr.Regions(), ", "), problems)
		if err := db.LogAction("AUDIT", details); err != nil {
			logging.Warnf("could not write audit log entry: %v", err)
		}

		if problems > 0 {
			fmt.Println(auditBadStyle.Render(i18n.T("audit.cli_drift_found", problems)))
			return errors.New(i18n.T("audit.cli_failed"))
		}
		fmt.Println(auditOkStyle.Render(i18n.T("audit.cli_clean", len(mgr.Regions()))))
		return nil
	},
}
