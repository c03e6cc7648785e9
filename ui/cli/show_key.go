// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/toeirei/warden/internal/i18n"
	"github.com/toeirei/warden/internal/validate"
)

// showKeyCmd represents the 'show-key' command.
// It prints the public SSH key stored for an operator, flagging regions
// whose stored copies have drifted apart.
var showKeyCmd = &cobra.Command{
	Use:   "show-key <username>",
	Short: "Show the public SSH key stored for an operator",
	Long: `Fetches the operator's stored public key from every configured region and
prints it. When all regions hold the same key it is printed once; differing
copies are printed per region so drift is visible at a glance.

With --copy the key is also placed on the system clipboard.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := validate.Username(args[0])
		if err != nil {
			return err
		}

		mgr, err := newOperatorManager(cmd)
		if err != nil {
			return err
		}

		type regionKey struct {
			region string
			key    string
		}
		var found []regionKey
		failed := 0
		for _, out := range mgr.Check(cmd.Context(), username) {
			if out.Err != nil {
				failed++
				fmt.Println(i18n.T("show_key.cli_region_error", out.Region, out.Err))
				continue
			}
			if out.HasKey {
				found = append(found, regionKey{region: out.Region, key: out.Key})
			}
		}

		if len(found) == 0 {
			if failed > 0 {
				return fmt.Errorf("%s", i18n.T("cli.error_regions_failed", failed))
			}
			return errors.New(i18n.T("show_key.cli_no_key", username))
		}

		uniform := true
		for _, fk := range found[1:] {
			if fk.key != found[0].key {
				uniform = false
				break
			}
		}

		if uniform {
			fmt.Println(found[0].key)
		} else {
			fmt.Println(i18n.T("show_key.cli_drift", username))
			for _, fk := range found {
				fmt.Printf("%s:\n%s\n", fk.region, fk.key)
			}
		}

		if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
			if err := clipboard.WriteAll(found[0].key); err != nil {
				return errors.New(i18n.T("show_key.cli_error_clipboard", err))
			}
			fmt.Println(i18n.T("show_key.cli_copied", username, found[0].region))
		}

		if failed > 0 {
			return fmt.Errorf("%s", i18n.T("cli.error_regions_failed", failed))
		}
		return nil
	},
}

func init() {
	if showKeyCmd.Flags().Lookup("copy") == nil {
		showKeyCmd.Flags().BoolP("copy", "c", false, "Copy the key to the system clipboard")
	}
}
