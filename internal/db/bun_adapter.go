package db

import (
	"context"
	"os/user"
	"strings"
	"time"

	"github.com/toeirei/warden/internal/model"
	"github.com/uptrace/bun"
)

// AuditLogModel is the Bun mapping for one audit_log row.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

func auditLogModelToModel(a AuditLogModel) model.AuditLogEntry {
	return model.AuditLogEntry{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details}
}

// GetAllAuditLogEntriesBun reads the whole audit trail, newest rows first.
func GetAllAuditLogEntriesBun(bdb *bun.DB) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var am []AuditLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, auditLogModelToModel(a))
	}
	return out, nil
}

// currentUsername resolves the OS user an audit entry is attributed to,
// with any Windows domain prefix stripped.
func currentUsername() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	if parts := strings.Split(u.Username, `\`); len(parts) > 1 {
		return parts[1]
	}
	return u.Username
}

// LogActionBun inserts an audit entry attributed to the invoking OS user.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb, "INSERT INTO audit_log (username, action, details) VALUES (?, ?, ?)", currentUsername(), action, details)
	return MapDBError(err)
}

// ExportDataForBackupBun exports the audit trail into a model.BackupData using
// a Bun transaction. Remote snapshots are filled in by the caller, which is
// the only place with access to the parameter stores.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	var backup *model.BackupData
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{SchemaVersion: 1}

		var als []AuditLogModel
		if err := tx.NewSelect().Model(&als).Scan(ctx); err != nil {
			return err
		}
		for _, a := range als {
			backup.AuditLogEntries = append(backup.AuditLogEntries, auditLogModelToModel(a))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return backup, nil
}

// auditTimestampValue converts RFC3339 timestamps to time.Time when possible
// so MySQL accepts them on import.
func auditTimestampValue(ts string) interface{} {
	if ts == "" {
		return ts
	}
	if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
		return parsed
	}
	// Fallback: convert 'T' separator to space and strip trailing 'Z' if present.
	s := strings.Replace(ts, "T", " ", 1)
	return strings.TrimSuffix(s, "Z")
}

// ImportDataFromBackupBun performs a full wipe-and-replace of the audit trail
// using a Bun transaction.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM audit_log"); err != nil {
			return err
		}
		for _, ale := range backup.AuditLogEntries {
			ts := auditTimestampValue(ale.Timestamp)
			if _, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (id, timestamp, username, action, details) VALUES (?, ?, ?, ?, ?)", ale.ID, ts, ale.Username, ale.Action, ale.Details); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
}

// IntegrateDataFromBackupBun performs a non-destructive restore, skipping
// audit rows whose ID already exists. An existence probe is used instead of
// INSERT OR IGNORE so the same statement works across all three dialects.
func IntegrateDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		for _, ale := range backup.AuditLogEntries {
			exists, err := tx.NewSelect().Model((*AuditLogModel)(nil)).Where("id = ?", ale.ID).Exists(ctx)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			ts := auditTimestampValue(ale.Timestamp)
			if _, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (id, timestamp, username, action, details) VALUES (?, ?, ?, ?, ?)", ale.ID, ts, ale.Username, ale.Action, ale.Details); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
}
