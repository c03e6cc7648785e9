// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists Warden's configuration. Viper does the
// heavy lifting: defaults, the YAML config file, WARDEN_* environment
// variables and bound CLI flags all land in one typed struct, in that order
// of precedence.
package config
