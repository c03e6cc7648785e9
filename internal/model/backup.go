// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.
package model

// BackupData is everything a backup archive carries: the local audit trail
// plus a snapshot of every configured region's parameter, so a wiped store
// can be rebuilt from the archive alone.
type BackupData struct {
	// SchemaVersion lets a restore recognize archives written by older releases.
	SchemaVersion int `json:"schema_version"`

	AuditLogEntries []AuditLogEntry  `json:"audit_log_entries"`
	Snapshots       []RegionSnapshot `json:"snapshots"`
}

// RegionSnapshot captures one region's parameter value at backup time.
type RegionSnapshot struct {
	Region    string   `json:"region"`
	Parameter string   `json:"parameter"`
	Users     UserList `json:"users"`
	TakenAt   string   `json:"taken_at"`
}
