// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures for operator provisioning.
package model // import "github.com/toeirei/warden/internal/model"

import (
	"sort"
	"strings"
)

// ListSeparator joins usernames in the stored parameter value. Downstream
// provisioning roles split the value on this exact byte, so it is part of
// the external contract and must not change.
const ListSeparator = ","

// UserList is a set of operator usernames in canonical form: sorted,
// deduplicated, no empty entries. The zero value is an empty list.
type UserList []string

// NewUserList builds a canonical UserList from the given usernames.
// Duplicates collapse and the result is sorted.
func NewUserList(usernames ...string) UserList {
	seen := make(map[string]struct{}, len(usernames))
	out := make(UserList, 0, len(usernames))
	for _, u := range usernames {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// ParseUserList parses a stored parameter value back into a UserList.
// It tolerates stray whitespace and duplicates from hand-edited parameters.
func ParseUserList(raw string) UserList {
	if strings.TrimSpace(raw) == "" {
		return UserList{}
	}
	return NewUserList(strings.Split(raw, ListSeparator)...)
}

// String serializes the list into the stored parameter value format:
// usernames joined by ListSeparator in sorted order. An empty list
// serializes to the empty string.
func (l UserList) String() string {
	return strings.Join(l, ListSeparator)
}

// Equal reports whether both lists hold the same set of usernames.
func (l UserList) Equal(other UserList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Contains reports whether the list includes the given username.
func (l UserList) Contains(username string) bool {
	for _, u := range l {
		if u == username {
			return true
		}
	}
	return false
}

// Add returns a new canonical list with the given usernames included.
// The receiver is not modified.
func (l UserList) Add(usernames ...string) UserList {
	merged := make([]string, 0, len(l)+len(usernames))
	merged = append(merged, l...)
	merged = append(merged, usernames...)
	return NewUserList(merged...)
}

// Remove returns a new canonical list with the given usernames dropped.
// The receiver is not modified.
func (l UserList) Remove(usernames ...string) UserList {
	drop := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		drop[u] = struct{}{}
	}
	out := make(UserList, 0, len(l))
	for _, u := range l {
		if _, ok := drop[u]; ok {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Diff compares the list against a previous state. Added holds usernames
// present here but not in prev; removed holds usernames present in prev
// but not here. Both come back sorted.
func (l UserList) Diff(prev UserList) (added, removed []string) {
	for _, u := range l {
		if !prev.Contains(u) {
			added = append(added, u)
		}
	}
	for _, u := range prev {
		if !l.Contains(u) {
			removed = append(removed, u)
		}
	}
	return added, removed
}

// Empty reports whether the list has no usernames.
func (l UserList) Empty() bool {
	return len(l) == 0
}
