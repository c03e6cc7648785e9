// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars holds values stamped into the binary at link time.
package buildvars

// Version carries the release tag injected via
// `-ldflags "-X github.com/toeirei/warden/buildvars.Version=..."`.
// Local builds leave it empty.
var Version string

// VersionOrDefault returns the stamped Version, or def when nothing was
// injected.
func VersionOrDefault(def string) string {
	if Version != "" {
		return Version
	}
	return def
}
