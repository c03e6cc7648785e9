// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Warden using Cobra.
// It wires configuration, default services, and provides commands that
// delegate to the operator and store packages. CLI code should remain thin
// and keep reconciliation logic in internal/operator.
package cli
