// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// Package operator reconciles the desired set of SSH operators with the
// parameter store. The engine performs a single read-compare-write cycle
// per region; the Manager fans changes out across regions.
package operator

import (
	"context"
	"errors"

	"github.com/toeirei/warden/internal/logging"
	"github.com/toeirei/warden/internal/model"
	"github.com/toeirei/warden/internal/store"
)

// Result describes the reconciliation of one region's operator parameter.
type Result struct {
	Region   string
	Previous model.UserList
	Current  model.UserList
	Added    []string
	Removed  []string

	// Changed reports whether a write happened. An unchanged set performs
	// no write at all.
	Changed bool
	// Created is true when the parameter did not exist before the write.
	Created bool
	// Deleted is true when the parameter was removed because no operators
	// remained.
	Deleted bool
}

// Reconcile applies mutate to the stored operator list and writes back the
// result if it differs. A missing parameter is not an error: the baseline
// is the empty set and a write creates the parameter. When the mutated set
// is empty the parameter is deleted, since consumers treat absence as "no
// operators". The write is a single overwriting put, so no partial states
// are ever visible.
func Reconcile(ctx context.Context, st store.Store, key string, mutate func(current model.UserList) model.UserList) (Result, error) {
	res := Result{Region: st.Region()}

	found := true
	raw, err := st.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return res, err
		}
		found = false
		raw = ""
		logging.Debugf("operator parameter %q does not exist in %s; starting from an empty set", key, st.Region())
	}

	current := model.ParseUserList(raw)
	desired := mutate(current)

	res.Previous = current
	res.Current = desired
	res.Added, res.Removed = desired.Diff(current)

	if desired.Equal(current) {
		logging.Debugf("operator list in %s already matches; no write needed", st.Region())
		return res, nil
	}

	if desired.Empty() {
		if err := st.Delete(ctx, key); err != nil {
			return res, err
		}
		res.Changed = true
		res.Deleted = true
		logging.Debugf("no operators left; deleted parameter %q in %s", key, st.Region())
		return res, nil
	}

	if err := st.Put(ctx, key, desired.String(), true); err != nil {
		return res, err
	}
	res.Changed = true
	res.Created = !found
	logging.Debugf("wrote operator list %q to %s in %s", desired.String(), key, st.Region())
	return res, nil
}

// SyncUserList replaces the stored operator list with the desired set,
// writing only when they differ.
func SyncUserList(ctx context.Context, st store.Store, key string, desired model.UserList) (Result, error) {
	return Reconcile(ctx, st, key, func(model.UserList) model.UserList {
		return desired
	})
}
