// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "log"

// debugEnabled gates the db package's internal trace output. The CLI
// switches it on together with --verbose.
var debugEnabled bool

// SetDebug toggles trace output for this package.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// dbLogf prints timing and pool diagnostics when tracing is on.
func dbLogf(format string, v ...any) {
	if !debugEnabled {
		return
	}
	log.Printf(format, v...)
}
