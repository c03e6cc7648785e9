// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// Package storetest implements an SSM Parameter Store simulator for use in
// testing. It satisfies store.Client and keeps per-operation call counts so
// tests can assert exactly how often the remote store was hit.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
)

// Server simulates one region's parameter store.
type Server struct {
	mu sync.Mutex

	parameters map[string]string

	// PageSize limits how many parameters a single GetParametersByPath
	// response carries. Zero means everything in one page.
	PageSize int

	GetCalls    int
	PutCalls    int
	DeleteCalls int
	ListCalls   int

	producePermissionError bool
	produceThrottleError   bool
}

// NewServer returns an empty simulator.
func NewServer() *Server {
	srv := &Server{}
	srv.Reset()
	return srv
}

// Reset drops all stored parameters and clears the call counters.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parameters = make(map[string]string)
	s.GetCalls, s.PutCalls, s.DeleteCalls, s.ListCalls = 0, 0, 0, 0
}

// ProducePermissionError makes every subsequent call fail as if the caller
// lacked IAM permissions.
func (s *Server) ProducePermissionError(p bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.producePermissionError = p
}

// ProduceThrottleError makes every subsequent call fail with a throttling
// error.
func (s *Server) ProduceThrottleError(p bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.produceThrottleError = p
}

// Seed stores a parameter directly without counting a call.
func (s *Server) Seed(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parameters[name] = value
}

// Value returns the stored value for name and whether it exists.
func (s *Server) Value(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.parameters[name]
	return v, ok
}

// Calls returns the total number of API calls seen since the last Reset.
func (s *Server) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.GetCalls + s.PutCalls + s.DeleteCalls + s.ListCalls
}

// WriteCalls returns the number of mutating API calls (puts and deletes).
func (s *Server) WriteCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PutCalls + s.DeleteCalls
}

func (s *Server) failure() error {
	if s.producePermissionError {
		return apiError("AccessDeniedException", "not authorized to perform this operation")
	}
	if s.produceThrottleError {
		return apiError("ThrottlingException", "rate exceeded")
	}
	return nil
}

// GetParameter implements the SSM GetParameter API against the in-memory map.
func (s *Server) GetParameter(ctx context.Context, input *ssm.GetParameterInput, opts ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++

	if err := s.failure(); err != nil {
		return nil, err
	}

	name := aws.ToString(input.Name)
	value, exists := s.parameters[name]
	if !exists {
		return nil, &types.ParameterNotFound{
			Message: aws.String(fmt.Sprintf("parameter %s not found", name)),
		}
	}

	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{
			Name:  input.Name,
			Value: aws.String(value),
			Type:  types.ParameterTypeSecureString,
		},
	}, nil
}

// PutParameter implements the SSM PutParameter API against the in-memory map.
func (s *Server) PutParameter(ctx context.Context, input *ssm.PutParameterInput, opts ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PutCalls++

	if err := s.failure(); err != nil {
		return nil, err
	}

	name := aws.ToString(input.Name)
	if _, exists := s.parameters[name]; exists && !aws.ToBool(input.Overwrite) {
		return nil, &types.ParameterAlreadyExists{
			Message: aws.String(fmt.Sprintf("parameter %s already exists", name)),
		}
	}

	s.parameters[name] = aws.ToString(input.Value)
	return &ssm.PutParameterOutput{Version: 1}, nil
}

// DeleteParameter implements the SSM DeleteParameter API against the
// in-memory map.
func (s *Server) DeleteParameter(ctx context.Context, input *ssm.DeleteParameterInput, opts ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls++

	if err := s.failure(); err != nil {
		return nil, err
	}

	name := aws.ToString(input.Name)
	if _, exists := s.parameters[name]; !exists {
		return nil, &types.ParameterNotFound{
			Message: aws.String(fmt.Sprintf("parameter %s not found", name)),
		}
	}

	delete(s.parameters, name)
	return &ssm.DeleteParameterOutput{}, nil
}

// GetParametersByPath implements the SSM GetParametersByPath API, honoring
// PageSize by handing out NextToken cursors.
func (s *Server) GetParametersByPath(ctx context.Context, input *ssm.GetParametersByPathInput, opts ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++

	if err := s.failure(); err != nil {
		return nil, err
	}

	prefix := strings.TrimSuffix(aws.ToString(input.Path), "/") + "/"
	var names []string
	for name := range s.parameters {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	start := 0
	if token := aws.ToString(input.NextToken); token != "" {
		idx, err := strconv.Atoi(token)
		if err != nil {
			return nil, apiError("InvalidNextToken", "bad token %q", token)
		}
		start = idx
	}

	end := len(names)
	var nextToken *string
	if s.PageSize > 0 && start+s.PageSize < len(names) {
		end = start + s.PageSize
		nextToken = aws.String(strconv.Itoa(end))
	}

	out := &ssm.GetParametersByPathOutput{NextToken: nextToken}
	for _, name := range names[start:end] {
		out.Parameters = append(out.Parameters, types.Parameter{
			Name:  aws.String(name),
			Value: aws.String(s.parameters[name]),
			Type:  types.ParameterTypeSecureString,
		})
	}
	return out, nil
}

func apiError(code, message string, args ...interface{}) error {
	return &smithy.GenericAPIError{Code: code, Message: fmt.Sprintf(message, args...)}
}
