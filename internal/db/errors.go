// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"strings"
)

// ErrDuplicate reports an insert that collided with an existing row.
var ErrDuplicate = errors.New("duplicate record")

// MapDBError folds the backends' constraint-violation errors into the
// package sentinels. Matching on message text keeps driver-specific error
// types out of this package; it covers SQLite's "UNIQUE constraint failed",
// Postgres SQLSTATE 23505 and MySQL error 1062.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"duplicate", "unique", "23505", "1062"} {
		if strings.Contains(msg, marker) {
			return ErrDuplicate
		}
	}
	return err
}
