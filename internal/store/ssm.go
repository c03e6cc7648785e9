// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// maxRetryAttempts bounds the SDK's standard retryer for transient service
// errors. Every put is a full overwrite, so retried writes stay safe.
const maxRetryAttempts = 4

// SSMStore is the production Store backed by AWS SSM Parameter Store.
// Values land as SecureString so usernames and key material are encrypted
// at rest.
type SSMStore struct {
	client Client
	region string
}

var _ Store = (*SSMStore)(nil)

// NewSSMStore builds a store for one region using the ambient AWS
// credential chain (environment, shared config, instance role).
func NewSSMStore(ctx context.Context, region string) (*SSMStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryMaxAttempts(maxRetryAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for region %q: %w", region, err)
	}
	return &SSMStore{client: ssm.NewFromConfig(cfg), region: region}, nil
}

// NewSSMStoreWithClient wires an explicit client. Tests use this to point
// the store at an in-memory simulator.
func NewSSMStoreWithClient(region string, client Client) *SSMStore {
	return &SSMStore{client: client, region: region}
}

// Region implements Store.
func (s *SSMStore) Region() string { return s.region }

// Get implements Store.
func (s *SSMStore) Get(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %q in %s: %w", name, s.region, MapStoreError(err))
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("get parameter %q in %s: empty response", name, s.region)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// Put implements Store.
func (s *SSMStore) Put(ctx context.Context, name, value string, overwrite bool) error {
	_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      types.ParameterTypeSecureString,
		Overwrite: aws.Bool(overwrite),
	})
	if err != nil {
		return fmt.Errorf("put parameter %q in %s: %w", name, s.region, MapStoreError(err))
	}
	return nil
}

// Delete implements Store.
func (s *SSMStore) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteParameter(ctx, &ssm.DeleteParameterInput{
		Name: aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("delete parameter %q in %s: %w", name, s.region, MapStoreError(err))
	}
	return nil
}

// ListByPath implements Store, following pagination until the service
// reports no further pages.
func (s *SSMStore) ListByPath(ctx context.Context, path string) (map[string]string, error) {
	values := make(map[string]string)
	var nextToken *string
	for {
		out, err := s.client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(path),
			Recursive:      aws.Bool(true),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("list parameters under %q in %s: %w", path, s.region, MapStoreError(err))
		}
		for _, p := range out.Parameters {
			values[aws.ToString(p.Name)] = aws.ToString(p.Value)
		}
		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		nextToken = out.NextToken
	}
	return values, nil
}
