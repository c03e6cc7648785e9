// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toeirei/warden/internal/db"
	"github.com/toeirei/warden/internal/i18n"
	"github.com/toeirei/warden/internal/logging"
	"github.com/toeirei/warden/internal/model"
	"github.com/toeirei/warden/internal/operator"
	"github.com/toeirei/warden/internal/sshkey"
	"github.com/toeirei/warden/internal/validate"
)

// syncCmd represents the 'sync' command.
// It replaces the operator list parameter in every configured region with
// the desired set of usernames.
var syncCmd = &cobra.Command{
	Use:   "sync [username...]",
	Short: "Set the operator list in every region to exactly these usernames",
	Long: `Replaces the operator-list parameter in every configured region with the
given set of usernames. Regions already matching the set are left untouched,
so re-running a sync is always safe.

Usernames can be given as arguments, read from a file with --file (one per
line, '#' comments allowed), or both. An empty set wipes the operator list
everywhere and therefore asks for confirmation unless --yes is set.

Examples:
  warden sync first.last second.last
  warden sync --file operators.txt
  warden sync --yes`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := append([]string{}, args...)
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			fromFile, err := readUsernameFile(file)
			if err != nil {
				return errors.New(i18n.T("sync.cli_error_file", err))
			}
			raw = append(raw, fromFile...)
		}

		usernames, err := validate.Usernames(raw)
		if err != nil {
			return err
		}
		desired := model.NewUserList(usernames...)

		mgr, err := newOperatorManager(cmd)
		if err != nil {
			return err
		}

		if desired.Empty() {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				answer := promptForConfirmation(i18n.T("sync.cli_confirm_empty", mgr.OperatorsKey()))
				if answer != "yes" && answer != "y" {
					fmt.Println(i18n.T("sync.cli_cancelled"))
					return nil
				}
			}
		}

		fmt.Println(i18n.T("sync.cli_starting", len(desired), len(mgr.Regions())))
		failed := 0
		for _, out := range mgr.Sync(cmd.Context(), desired) {
			switch {
			case out.Err != nil:
				failed++
				fmt.Println(i18n.T("sync.cli_region_error", out.Region, out.Err))
			case out.Created:
				fmt.Println(i18n.T("sync.cli_region_created", out.Region, desired.String()))
			case out.Deleted:
				fmt.Println(i18n.T("sync.cli_region_deleted", out.Region))
			case out.Changed:
				fmt.Println(i18n.T("sync.cli_region_updated", out.Region, len(out.Added), len(out.Removed)))
			default:
				fmt.Println(i18n.T("sync.cli_region_unchanged", out.Region))
			}
		}

		details := fmt.Sprintf("set %s to [%s] in %s", mgr.OperatorsKey(), desired.String(), strings.Join(mgr.Regions(), ", "))
		if err := db.LogAction("SYNC", details); err != nil {
			logging.Warnf("could not write audit log entry: %v", err)
		}

		if failed > 0 {
			return fmt.Errorf("%s", i18n.T("cli.error_regions_failed", failed))
		}
		return nil
	},
}

// addCmd represents the 'add' command.
// It stores an operator's public SSH key and enrolls the username in every
// region's operator list.
var addCmd = &cobra.Command{
	Use:   "add <username> [public-key...]",
	Short: "Store an operator's SSH key and enroll the username everywhere",
	Long: `Stores the operator's public SSH key under the key prefix and adds the
username to the operator list in every configured region.

The public key can be given inline after the username, read from a file with
--key-file ('-' reads stdin), or pasted interactively. A key already stored
for the username is left untouched unless --overwrite is set; the list
enrollment still happens, so a half-enrolled operator heals on re-run.

Examples:
  warden add first.last "ssh-ed25519 AAAA... first.last@example.com"
  warden add first.last --key-file ./first.last.pub
  cat first.last.pub | warden add first.last --key-file -`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := validate.Username(args[0])
		if err != nil {
			return err
		}

		rawKey, err := resolveKeyInput(cmd, args[1:], username)
		if err != nil {
			return err
		}
		key, err := sshkey.Validate(rawKey)
		if err != nil {
			return errors.New(i18n.T("add.cli_error_invalid_key", err))
		}
		if warning := sshkey.CheckAlgorithm(key.Algorithm); warning != "" {
			fmt.Println(warning)
		}

		mgr, err := newOperatorManager(cmd)
		if err != nil {
			return err
		}

		overwrite, _ := cmd.Flags().GetBool("overwrite")
		fmt.Println(i18n.T("add.cli_starting", username, key.Fingerprint))
		failed := 0
		for _, out := range mgr.Add(cmd.Context(), username, key, overwrite) {
			if out.Err != nil {
				failed++
				fmt.Println(i18n.T("add.cli_region_error", out.Region, out.Err))
				continue
			}
			switch {
			case out.KeyExisted:
				fmt.Println(i18n.T("add.cli_key_existed", out.Region))
			case out.KeyStored:
				fmt.Println(i18n.T("add.cli_key_stored", out.Region))
			}
			if out.AlreadyListed {
				fmt.Println(i18n.T("add.cli_already_listed", out.Region))
			} else {
				fmt.Println(i18n.T("add.cli_enrolled", out.Region))
			}
		}

		details := fmt.Sprintf("added %s (%s) in %s", username, key.Fingerprint, strings.Join(mgr.Regions(), ", "))
		if err := db.LogAction("ADD_OPERATOR", details); err != nil {
			logging.Warnf("could not write audit log entry: %v", err)
		}

		if failed > 0 {
			return fmt.Errorf("%s", i18n.T("cli.error_regions_failed", failed))
		}
		return nil
	},
}

// removeCmd represents the 'remove' command.
// It drops a username from every region's operator list; with --full the
// stored SSH key is deleted as well.
var removeCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Drop an operator from every region's operator list",
	Long: `Removes the username from the operator list in every configured region.
The stored SSH key is kept by default so the operator can be re-enrolled
without re-sending a key; pass --full to delete the key parameter too.

Examples:
  warden remove first.last
  warden remove --full first.last`,
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

		full, _ := cmd.Flags().GetBool("full")
		yes, _ := cmd.Flags().GetBool("yes")
		if full && !yes {
			answer := promptForConfirmation(i18n.T("remove.cli_confirm_full", username))
			if answer != "yes" && answer != "y" {
				fmt.Println(i18n.T("remove.cli_cancelled"))
				return nil
			}
		}

		failed := 0
		for _, out := range mgr.Remove(cmd.Context(), username, full) {
			if out.Err != nil {
				failed++
				fmt.Println(i18n.T("remove.cli_region_error", out.Region, out.Err))
				continue
			}
			switch {
			case out.KeyDeleted:
				fmt.Println(i18n.T("remove.cli_key_deleted", out.Region))
			case out.KeyMissing:
				fmt.Println(i18n.T("remove.cli_key_missing", out.Region))
			}
			if out.NotListed {
				fmt.Println(i18n.T("remove.cli_not_listed", out.Region))
			} else {
				fmt.Println(i18n.T("remove.cli_removed", out.Region))
			}
		}

		mode := "list only"
		if full {
			mode = "full"
		}
		details := fmt.Sprintf("removed %s (%s) in %s", username, mode, strings.Join(mgr.Regions(), ", "))
		if err := db.LogAction("REMOVE_OPERATOR", details); err != nil {
			logging.Warnf("could not write audit log entry: %v", err)
		}

		if failed > 0 {
			return fmt.Errorf("%s", i18n.T("cli.error_regions_failed", failed))
		}
		return nil
	},
}

// listCmd represents the 'list' command.
// Without arguments it prints each region's operator list; with a username
// it reports that operator's key and enrollment status per region.
var listCmd = &cobra.Command{
	Use:   "list [username]",
	Short: "Show the operator list per region, or one operator's status",
	Long: `Without arguments, displays every configured region's operator list in
table format. With a username, shows for each region whether the operator
has a stored SSH key and whether the username is enrolled in the list.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newOperatorManager(cmd)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			username, err := validate.Username(args[0])
			if err != nil {
				return err
			}
			return runOperatorStatus(cmd, mgr, username)
		}

		failed := 0
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "REGION\tOPERATORS\tSTATUS")
		fmt.Fprintln(w, "------\t---------\t------")
		for _, out := range mgr.Operators(cmd.Context()) {
			switch {
			case out.Err != nil:
				failed++
				fmt.Fprintf(w, "%s\t-\terror: %v\n", out.Region, out.Err)
			case !out.Exists:
				fmt.Fprintf(w, "%s\t-\tnot present\n", out.Region)
			case out.Users.Empty():
				fmt.Fprintf(w, "%s\t(none)\tempty\n", out.Region)
			default:
				fmt.Fprintf(w, "%s\t%s\t%d operator(s)\n", out.Region, out.Users.String(), len(out.Users))
			}
		}
		w.Flush()

		if failed > 0 {
			return fmt.Errorf("%s", i18n.T("cli.error_regions_failed", failed))
		}
		return nil
	},
}

// runOperatorStatus renders the per-region key/enrollment table for one
// operator and a one-line summary of whether they are present everywhere.
func runOperatorStatus(cmd *cobra.Command, mgr *operator.Manager, username string) error {
	status := model.OperatorStatus{Username: username, Present: map[string]bool{}}

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tKEY\tENROLLED")
	fmt.Fprintln(w, "------\t---\t--------")
	for _, out := range mgr.Check(cmd.Context(), username) {
		if out.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\terror: %v\t-\n", out.Region, out.Err)
			continue
		}
		keyCol := "no"
		if out.HasKey {
			keyCol = "yes"
		}
		listedCol := "no"
		if out.Listed {
			listedCol = "yes"
		} else if !out.ListExists {
			listedCol = "no (list not present)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", out.Region, keyCol, listedCol)
		status.Present[out.Region] = out.HasKey && out.Listed
	}
	w.Flush()

	if failed > 0 {
		return fmt.Errorf("%s", i18n.T("cli.error_regions_failed", failed))
	}
	if status.Everywhere() {
		fmt.Println(i18n.T("list.cli_everywhere", username))
	} else {
		fmt.Println(i18n.T("list.cli_not_everywhere", username))
	}
	return nil
}

// readUsernameFile reads one username per line, skipping blanks and '#'
// comments. "-" reads stdin.
func readUsernameFile(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveKeyInput finds the public key material for `add`: inline arguments
// first, then --key-file, then an interactive paste when stdin is a
// terminal.
func resolveKeyInput(cmd *cobra.Command, inline []string, username string) (string, error) {
	if len(inline) > 0 {
		return strings.Join(inline, " "), nil
	}

	if keyFile, _ := cmd.Flags().GetString("key-file"); keyFile != "" {
		if keyFile == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return "", errors.New(i18n.T("add.cli_error_read_key", err))
			}
			return strings.TrimSpace(string(data)), nil
		}
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return "", errors.New(i18n.T("add.cli_error_read_key", err))
		}
		return strings.TrimSpace(string(data)), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print(i18n.T("add.cli_prompt_key", username))
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New(i18n.T("add.cli_error_read_key", err))
	}
	return strings.TrimSpace(line), nil
}

// registerOperatorCommands registers flags for the operator lifecycle
// subcommands.
func registerOperatorCommands() {
	// Setup flags for sync (only if not already defined)
	if syncCmd.Flags().Lookup("file") == nil {
		syncCmd.Flags().StringP("file", "f", "", "Read usernames from a file, one per line ('-' for stdin)")
		syncCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation when the desired set is empty")
	}

	// Setup flags for add (only if not already defined)
	if addCmd.Flags().Lookup("key-file") == nil {
		addCmd.Flags().StringP("key-file", "k", "", "Read the public key from a file ('-' for stdin)")
		addCmd.Flags().Bool("overwrite", false, "Replace an already stored key for the username")
	}

	// Setup flags for remove (only if not already defined)
	if removeCmd.Flags().Lookup("full") == nil {
		removeCmd.Flags().Bool("full", false, "Also delete the operator's stored SSH key")
		removeCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	}
}
