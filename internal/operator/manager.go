// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package operator

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/toeirei/warden/internal/model"
	"github.com/toeirei/warden/internal/sshkey"
	"github.com/toeirei/warden/internal/store"
)

// Manager fans operator changes out to every configured region. Regions are
// processed in order, one at a time; a failure in one region never stops the
// others from being attempted.
type Manager struct {
	operatorsKey string
	keyPrefix    string
	stores       []store.Store
}

// NewManager builds a manager over the given per-region stores.
// operatorsKey names the parameter holding the active operator list;
// keyPrefix is the path under which per-operator SSH keys live.
func NewManager(operatorsKey, keyPrefix string, stores ...store.Store) *Manager {
	return &Manager{
		operatorsKey: operatorsKey,
		keyPrefix:    strings.TrimSuffix(keyPrefix, "/"),
		stores:       stores,
	}
}

// Regions lists the configured region names in processing order.
func (m *Manager) Regions() []string {
	out := make([]string, 0, len(m.stores))
	for _, st := range m.stores {
		out = append(out, st.Region())
	}
	return out
}

// StoreFor returns the store serving the named region.
func (m *Manager) StoreFor(region string) (store.Store, bool) {
	for _, st := range m.stores {
		if st.Region() == region {
			return st, true
		}
	}
	return nil, false
}

// KeyName returns the parameter name holding username's public SSH key.
func (m *Manager) KeyName(username string) string {
	return m.keyPrefix + "/" + username
}

// OperatorsKey returns the parameter name holding the operator list.
func (m *Manager) OperatorsKey() string {
	return m.operatorsKey
}

// Outcome is the per-region result of a list reconciliation.
type Outcome struct {
	Result
	Err error
}

// Sync replaces every region's operator list with the desired set. Regions
// already matching the set see no write at all.
func (m *Manager) Sync(ctx context.Context, desired model.UserList) []Outcome {
	outcomes := make([]Outcome, 0, len(m.stores))
	for _, st := range m.stores {
		res, err := SyncUserList(ctx, st, m.operatorsKey, desired)
		outcomes = append(outcomes, Outcome{Result: res, Err: err})
	}
	return outcomes
}

// AddOutcome is the per-region result of adding one operator.
type AddOutcome struct {
	Region string
	// KeyStored reports that the SSH key parameter was written.
	KeyStored bool
	// KeyExisted reports that a key was already present and overwrite was
	// not requested; the stored key is left untouched.
	KeyExisted bool
	// AlreadyListed reports that the username was already in the operator
	// list, making the list update a no-op.
	AlreadyListed bool
	ListResult    Result
	Err           error
}

// Add stores the operator's public key and enrolls the username in each
// region's operator list. A pre-existing key without overwrite is reported
// as a warning condition, not a failure, and the list is still updated so
// a half-enrolled operator heals on re-run.
func (m *Manager) Add(ctx context.Context, username string, key sshkey.Key, overwrite bool) []AddOutcome {
	outcomes := make([]AddOutcome, 0, len(m.stores))
	for _, st := range m.stores {
		out := AddOutcome{Region: st.Region()}

		err := st.Put(ctx, m.KeyName(username), key.String(), overwrite)
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			out.KeyExisted = true
		case err != nil:
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		default:
			out.KeyStored = true
		}

		res, err := Reconcile(ctx, st, m.operatorsKey, func(current model.UserList) model.UserList {
			return current.Add(username)
		})
		out.ListResult = res
		out.Err = err
		out.AlreadyListed = err == nil && !res.Changed
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// RemoveOutcome is the per-region result of removing one operator.
type RemoveOutcome struct {
	Region string
	// KeyDeleted reports that the SSH key parameter was removed (full mode).
	KeyDeleted bool
	// KeyMissing reports that no SSH key parameter existed (full mode).
	KeyMissing bool
	// NotListed reports that the username was not in the operator list.
	NotListed  bool
	ListResult Result
	Err        error
}

// Remove drops the username from each region's operator list. With full set
// the stored SSH key is deleted as well; a key that was never stored is a
// warning condition, not a failure.
func (m *Manager) Remove(ctx context.Context, username string, full bool) []RemoveOutcome {
	outcomes := make([]RemoveOutcome, 0, len(m.stores))
	for _, st := range m.stores {
		out := RemoveOutcome{Region: st.Region()}

		if full {
			err := st.Delete(ctx, m.KeyName(username))
			switch {
			case errors.Is(err, store.ErrNotFound):
				out.KeyMissing = true
			case err != nil:
				out.Err = err
				outcomes = append(outcomes, out)
				continue
			default:
				out.KeyDeleted = true
			}
		}

		res, err := Reconcile(ctx, st, m.operatorsKey, func(current model.UserList) model.UserList {
			return current.Remove(username)
		})
		out.ListResult = res
		out.Err = err
		out.NotListed = err == nil && !res.Changed
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// CheckOutcome is the per-region status of one operator.
type CheckOutcome struct {
	Region string
	// Key holds the stored public key material, if any.
	Key    string
	HasKey bool
	// Listed reports membership in the operator list.
	Listed bool
	// ListExists reports whether the operator list parameter is present at
	// all in this region.
	ListExists bool
	Err        error
}

// Check reports, for each region, whether the operator has a stored key and
// whether the username is enrolled in the operator list.
func (m *Manager) Check(ctx context.Context, username string) []CheckOutcome {
	outcomes := make([]CheckOutcome, 0, len(m.stores))
	for _, st := range m.stores {
		out := CheckOutcome{Region: st.Region()}

		key, err := st.Get(ctx, m.KeyName(username))
		switch {
		case errors.Is(err, store.ErrNotFound):
			// No key stored; still worth reporting list membership.
		case err != nil:
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		default:
			out.Key = key
			out.HasKey = true
		}

		raw, err := st.Get(ctx, m.operatorsKey)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// Absent list means nobody is enrolled.
		case err != nil:
			out.Err = err
		default:
			out.ListExists = true
			out.Listed = model.ParseUserList(raw).Contains(username)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// OperatorsOutcome is one region's operator list.
type OperatorsOutcome struct {
	Region string
	Users  model.UserList
	// Exists reports whether the operator list parameter is present.
	Exists bool
	Err    error
}

// Operators reads every region's operator list.
func (m *Manager) Operators(ctx context.Context) []OperatorsOutcome {
	outcomes := make([]OperatorsOutcome, 0, len(m.stores))
	for _, st := range m.stores {
		out := OperatorsOutcome{Region: st.Region()}

		raw, err := st.Get(ctx, m.operatorsKey)
		switch {
		case errors.Is(err, store.ErrNotFound):
			out.Users = model.UserList{}
		case err != nil:
			out.Err = err
		default:
			out.Exists = true
			out.Users = model.ParseUserList(raw)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// AuditOutcome reports inconsistencies between a region's operator list and
// its stored SSH keys.
type AuditOutcome struct {
	Region string
	// Unlisted usernames have a stored key but are missing from the
	// operator list.
	Unlisted []string
	// Keyless usernames are enrolled but have no stored key.
	Keyless []string
	Err     error
}

// Audit cross-checks each region's operator list against the keys stored
// under the key prefix.
func (m *Manager) Audit(ctx context.Context) []AuditOutcome {
	outcomes := make([]AuditOutcome, 0, len(m.stores))
	for _, st := range m.stores {
		out := AuditOutcome{Region: st.Region()}

		raw, err := st.Get(ctx, m.operatorsKey)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		}
		users := model.ParseUserList(raw)

		keys, err := st.ListByPath(ctx, m.keyPrefix)
		if err != nil {
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		}

		for name := range keys {
			username := path.Base(name)
			if !users.Contains(username) {
				out.Unlisted = append(out.Unlisted, username)
			}
		}
		for _, username := range users {
			if _, ok := keys[m.KeyName(username)]; !ok {
				out.Keyless = append(out.Keyless, username)
			}
		}
		sort.Strings(out.Unlisted)
		sort.Strings(out.Keyless)
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// Snapshot captures every region's operator list for a backup archive.
// Unlike the mutating operations, a failed region aborts the whole snapshot
// so an archive never silently misses a region.
func (m *Manager) Snapshot(ctx context.Context) ([]model.RegionSnapshot, error) {
	takenAt := time.Now().UTC().Format(time.RFC3339)
	snapshots := make([]model.RegionSnapshot, 0, len(m.stores))
	for _, st := range m.stores {
		snap := model.RegionSnapshot{
			Region:    st.Region(),
			Parameter: m.operatorsKey,
			TakenAt:   takenAt,
		}

		raw, err := st.Get(ctx, m.operatorsKey)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		snap.Users = model.ParseUserList(raw)
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
