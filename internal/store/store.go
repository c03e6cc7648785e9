// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// Package store provides access to the remote parameter store holding
// operator data. The rest of Warden talks to the Store interface; the only
// production implementation is backed by AWS SSM Parameter Store.
package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Client is the subset of the SSM API the store uses. *ssm.Client satisfies
// it; tests substitute an in-memory simulator.
type Client interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error)
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// Store is the persistence boundary for operator data. Implementations map
// their native failures onto the package sentinel errors so callers can
// branch with errors.Is.
type Store interface {
	// Get returns the decrypted value stored under name.
	Get(ctx context.Context, name string) (string, error)
	// Put writes value under name, encrypted at rest. With overwrite false
	// the call fails with ErrAlreadyExists when the parameter is present.
	Put(ctx context.Context, name, value string, overwrite bool) error
	// Delete removes the parameter entirely.
	Delete(ctx context.Context, name string) error
	// ListByPath returns every parameter below the given path prefix,
	// decrypted, keyed by full name.
	ListByPath(ctx context.Context, path string) (map[string]string, error)
	// Region names the region this store talks to, for logs and results.
	Region() string
}
