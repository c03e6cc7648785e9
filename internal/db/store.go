// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/toeirei/warden/internal/model"
	"github.com/uptrace/bun"
)

// Store is the contract every database backend satisfies. SQLite,
// PostgreSQL and MySQL implementations exist, all thin wrappers over the
// shared Bun helpers.
type Store interface {
	// The audit trail.
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	SearchAuditLogEntries(query string) ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error

	// Backup and restore.
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
	IntegrateDataFromBackup(backup *model.BackupData) error

	// BunDB exposes the underlying Bun handle for helpers that operate on
	// the raw connection.
	BunDB() *bun.DB

	Close() error
}
