// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
)

// ErrNotFound is returned when no parameter exists under the requested name.
var ErrNotFound = errors.New("parameter not found")

// ErrAlreadyExists is returned by Put without overwrite when the parameter
// is already present.
var ErrAlreadyExists = errors.New("parameter already exists")

// ErrAccessDenied is returned when the caller's credentials do not permit
// the operation. Retrying cannot fix this.
var ErrAccessDenied = errors.New("access denied")

// ErrThrottled is returned when the service rate-limits the call even after
// the SDK's own bounded retries are exhausted.
var ErrThrottled = errors.New("request throttled")

// MapStoreError inspects low-level SDK errors and maps the well-known
// service failures to package-level sentinel errors. Anything unrecognized
// passes through unchanged.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var notFound *types.ParameterNotFound
	if errors.As(err, &notFound) {
		return ErrNotFound
	}
	var exists *types.ParameterAlreadyExists
	if errors.As(err, &exists) {
		return ErrAlreadyExists
	}
	var api smithy.APIError
	if errors.As(err, &api) {
		switch api.ErrorCode() {
		case "ParameterNotFound":
			return ErrNotFound
		case "ParameterAlreadyExists":
			return ErrAlreadyExists
		case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
			return ErrAccessDenied
		case "ThrottlingException", "TooManyUpdates", "RequestLimitExceeded":
			return ErrThrottled
		}
	}
	return err
}
