// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/toeirei/warden/internal/db"
	"github.com/toeirei/warden/internal/i18n"
	"github.com/toeirei/warden/internal/logging"
	"github.com/toeirei/warden/internal/model"
	"github.com/toeirei/warden/internal/operator"
)

// backupCmd represents the 'backup' command.
// It captures every region's operator list plus the local audit trail into
// a single compressed JSON archive.
var backupCmd = &cobra.Command{
	Use:   "backup [output-file]",
	Short: "Create a compressed (zstd) JSON backup of operator state",
	Long: `Captures the operator list from every configured region together with the
local audit trail and writes everything into a single, Zstandard-compressed
JSON file.

If an output file is specified, '.zst' will be appended to the name if it's
not already present. If no output file is specified, a default filename
'warden-backup-YYYY-MM-DD.json.zst' is used.

A failed region read aborts the backup so an archive never silently misses
a region.

Examples:
  # Backup to a default file (e.g., warden-backup-2026-08-23.json.zst)
  warden backup

  # Backup to a specific file
  warden backup my-backup.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		var outputFile string
		if len(args) == 0 {
			outputFile = fmt.Sprintf("warden-backup-%s.json.zst", time.Now().Format("2006-01-02"))
		} else {
			outputFile = args[0]
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}
		}

		mgr, err := newOperatorManager(cmd)
		if err != nil {
			return err
		}

		fmt.Println(i18n.T("backup.cli_starting"))
		snapshots, err := mgr.Snapshot(cmd.Context())
		if err != nil {
			return errors.New(i18n.T("backup.cli_error_snapshot", err))
		}

		data, err := db.ExportDataForBackup()
		if err != nil {
			return errors.New(i18n.T("backup.cli_error_export", err))
		}
		data.Snapshots = snapshots

		if err := writeCompressedBackup(outputFile, data); err != nil {
			return errors.New(i18n.T("backup.cli_error_write", err))
		}
		fmt.Println(i18n.T("backup.cli_success", outputFile))
		return nil
	},
}

// restoreCmd represents the 'restore' command.
// It replays a backup archive into the local audit trail and the configured
// regions' operator lists.
var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file.zst>",
	Short: "Restore operator state from a compressed JSON backup",
	Long: `Restores Warden state from a Zstandard-compressed JSON backup file.

By default this is a non-destructive "integration" restore: audit trail rows
that already exist are kept, and the archived operators are merged into each
region's current list without dropping anyone enrolled since the backup.

With --full the archive wins: the audit trail is replaced and every region's
operator list is overwritten with the archived set.
WARNING: The --full flag is destructive and not reversible.

Snapshots for regions that are not currently configured are skipped with a
warning.

Example (Integrate):
  warden restore ./warden-backup-2026-08-23.json.zst

Example (Full Restore):
  warden restore --full ./warden-backup-2026-08-23.json.zst`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		fmt.Println(i18n.T("restore.cli_starting", inputFile))

		backup, err := readCompressedBackup(inputFile)
		if err != nil {
			return errors.New(i18n.T("restore.cli_error_read", err))
		}

		if fullRestore {
			err = db.ImportDataFromBackup(backup)
		} else {
			err = db.IntegrateDataFromBackup(backup)
		}
		if err != nil {
			return errors.New(i18n.T("restore.cli_error_import", err))
		}

		failed := 0
		if len(backup.Snapshots) > 0 {
			mgr, err := newOperatorManager(cmd)
			if err != nil {
				return err
			}
			for _, snap := range backup.Snapshots {
				st, ok := mgr.StoreFor(snap.Region)
				if !ok {
					fmt.Println(i18n.T("restore.cli_region_skipped", snap.Region))
					continue
				}
				users := snap.Users
				var res operator.Result
				if fullRestore {
					res, err = operator.SyncUserList(cmd.Context(), st, snap.Parameter, users)
				} else {
					res, err = operator.Reconcile(cmd.Context(), st, snap.Parameter, func(current model.UserList) model.UserList {
						return current.Add(users...)
					})
				}
				switch {
				case err != nil:
					failed++
					fmt.Println(i18n.T("restore.cli_region_error", snap.Region, err))
				case res.Changed:
					fmt.Println(i18n.T("restore.cli_region_applied", snap.Region, res.Current.String()))
				default:
					fmt.Println(i18n.T("restore.cli_region_unchanged", snap.Region))
				}
			}
		}

		mode := "integrate"
		if fullRestore {
			mode = "full"
		}
		if err := db.LogAction("RESTORE", fmt.Sprintf("restored from %s (%s)", inputFile, mode)); err != nil {
			logging.Warnf("could not write audit log entry: %v", err)
		}

		if failed > 0 {
			return fmt.Errorf("%s", i18n.T("cli.error_regions_failed", failed))
		}
		fmt.Println(i18n.T("restore.cli_success"))
		return nil
	},
}

// readCompressedBackup handles reading and decoding a zstd-compressed JSON backup file.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var backupData model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&backupData); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}

	return &backupData, nil
}

// writeCompressedBackup handles the process of writing the backup data to a zstd-compressed file.
// It streams the JSON encoding directly to the compressed writer for memory efficiency.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	defer func() { _ = zstdWriter.Close() }()

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ") // Pretty-print the JSON inside the compressed file

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}

	return nil
}
