// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// Package validate checks operator-supplied input before anything touches
// the remote store. All checks normalize to lowercase first, matching what
// downstream provisioning roles expect to find in the parameter store.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidUsername is returned for usernames that do not follow the
// firstname.lastname convention.
var ErrInvalidUsername = errors.New(`username must be in the format "firstname.lastname" and may only contain letters, numbers, and the characters ".-_"`)

// ErrInvalidParamName is returned for malformed parameter store keys.
var ErrInvalidParamName = errors.New("invalid parameter store key")

// ErrInvalidRegion is returned for region names that do not look like AWS
// region identifiers.
var ErrInvalidRegion = errors.New("invalid region")

var (
	usernameChars  = regexp.MustCompile(`^[a-z0-9._-]+$`)
	paramNameChars = regexp.MustCompile(`^[a-z0-9._/-]+$`)
	regionPattern  = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]+)+-\d+$`)
)

// Username lowercases and validates an operator username. Usernames follow
// the firstname.lastname convention: at least two dot-separated parts drawn
// from letters, numbers, and ".-_".
func Username(raw string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(raw))
	if !usernameChars.MatchString(u) {
		return "", fmt.Errorf("%w (got %q)", ErrInvalidUsername, raw)
	}
	if len(strings.Split(u, ".")) < 2 {
		return "", fmt.Errorf("%w (got %q)", ErrInvalidUsername, raw)
	}
	return u, nil
}

// Usernames validates a batch, returning the normalized names in input order.
// The first invalid entry aborts the whole batch.
func Usernames(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		u, err := Username(r)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// ParamName lowercases and validates a parameter store key. The store only
// allows letters, numbers, and "._-/" in key names, and a key containing a
// slash must be fully qualified with a leading one.
func ParamName(raw string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(raw))
	if k == "" || !paramNameChars.MatchString(k) {
		return "", fmt.Errorf("%w: %q", ErrInvalidParamName, raw)
	}
	if strings.Contains(k, "/") && !strings.HasPrefix(k, "/") {
		return "", fmt.Errorf("%w: %q must start with a slash", ErrInvalidParamName, raw)
	}
	return k, nil
}

// Region checks that a region name is syntactically plausible, for example
// us-east-1 or eu-central-1. It deliberately does not pin an allow-list so
// newly launched regions work without a code change.
func Region(raw string) error {
	if !regionPattern.MatchString(raw) {
		return fmt.Errorf("%w: %q", ErrInvalidRegion, raw)
	}
	return nil
}

// Regions splits a comma-delimited region list, validating every entry.
// Duplicates collapse; at least one region must remain.
func Regions(raw string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if err := Region(p); err != nil {
			return nil, err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no regions given", ErrInvalidRegion)
	}
	return out, nil
}
