// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// Package main is the entry point for the warden binary. All command
// definitions live in ui/cli; this package only handles process exit.
package main

import (
	"os"

	"github.com/toeirei/warden/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Cobra has printed the error by the time Execute returns.
		os.Exit(1)
	}
}
