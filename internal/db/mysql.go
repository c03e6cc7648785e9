// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the local persistence layer for Warden.
// This file holds the MySQL backend.
package db // import "github.com/toeirei/warden/internal/db"

import (
	"github.com/toeirei/warden/internal/model"
	"github.com/uptrace/bun"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLStore serves the audit trail from a MySQL database.
// The driver expects a DSN like "user:password@tcp(host:port)/dbname";
// add `?parseTime=true` so DATETIME columns scan into time.Time.
type MySQLStore struct {
	bun *bun.DB
}

// GetAllAuditLogEntries returns the full audit trail, newest first.
func (s *MySQLStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

// SearchAuditLogEntries returns audit entries matching the query, most recent first.
func (s *MySQLStore) SearchAuditLogEntries(query string) ([]model.AuditLogEntry, error) {
	return SearchAuditLogEntriesBun(s.bun, query)
}

// LogAction appends one audit entry, attributed to the invoking OS user.
func (s *MySQLStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

// ExportDataForBackup retrieves the audit trail for a backup archive.
func (s *MySQLStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the audit trail from a backup, replacing existing rows.
func (s *MySQLStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

// IntegrateDataFromBackup restores the audit trail without touching existing rows.
func (s *MySQLStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}

// BunDB exposes the underlying Bun handle.
func (s *MySQLStore) BunDB() *bun.DB {
	return s.bun
}

// Close releases the underlying database connection.
func (s *MySQLStore) Close() error {
	return s.bun.Close()
}
