// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the local persistence layer for Warden.
// This file holds the PostgreSQL backend.
package db // import "github.com/toeirei/warden/internal/db"

import (
	"github.com/toeirei/warden/internal/model"
	"github.com/uptrace/bun"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver (pgx)
)

// PostgresStore serves the audit trail from a PostgreSQL database.
// Every method forwards to the shared Bun helpers.
type PostgresStore struct {
	bun *bun.DB
}

// GetAllAuditLogEntries returns the full audit trail, newest first.
func (s *PostgresStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

// SearchAuditLogEntries returns audit entries matching the query, most recent first.
func (s *PostgresStore) SearchAuditLogEntries(query string) ([]model.AuditLogEntry, error) {
	return SearchAuditLogEntriesBun(s.bun, query)
}

// LogAction appends one audit entry, attributed to the invoking OS user.
func (s *PostgresStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

// ExportDataForBackup retrieves the audit trail for a backup archive.
func (s *PostgresStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the audit trail from a backup, replacing existing rows.
func (s *PostgresStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

// IntegrateDataFromBackup restores the audit trail without touching existing rows.
func (s *PostgresStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}

// BunDB exposes the underlying Bun handle.
func (s *PostgresStore) BunDB() *bun.DB {
	return s.bun
}

// Close releases the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.bun.Close()
}
