// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package validate

import (
	"errors"
	"testing"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "first.last", "first.last", false},
		{"uppercase normalized", "First.Last", "first.last", false},
		{"surrounding whitespace", "  first.last  ", "first.last", false},
		{"digits and dashes", "jean-luc.picard2", "jean-luc.picard2", false},
		{"underscores", "first_name.last_name", "first_name.last_name", false},
		{"more than two parts", "first.middle.last", "first.middle.last", false},
		{"no dot", "alice", "", true},
		{"empty", "", "", true},
		{"illegal characters", "first.last!", "", true},
		{"spaces inside", "first last", "", true},
		{"comma", "first,last", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Username(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Username(%q) expected error, got %q", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidUsername) {
					t.Errorf("Username(%q) error = %v, want ErrInvalidUsername", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Username(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Username(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUsernames(t *testing.T) {
	got, err := Usernames([]string{"First.Last", "other.user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "first.last" || got[1] != "other.user" {
		t.Errorf("unexpected batch result: %v", got)
	}

	if _, err := Usernames([]string{"first.last", "bogus"}); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("expected ErrInvalidUsername for batch with bad entry, got %v", err)
	}
}

func TestParamName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"fully qualified", "/warden/operators", "/warden/operators", false},
		{"uppercase normalized", "/Warden/Operators", "/warden/operators", false},
		{"no slash at all", "operators", "operators", false},
		{"dots and dashes", "/env/prod-1/ops.users", "/env/prod-1/ops.users", false},
		{"slash without leading slash", "warden/operators", "", true},
		{"empty", "", "", true},
		{"illegal characters", "/warden/op rators", "", true},
		{"shell metacharacters", "/warden/$ops", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParamName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParamName(%q) expected error, got %q", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidParamName) {
					t.Errorf("ParamName(%q) error = %v, want ErrInvalidParamName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParamName(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParamName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRegion(t *testing.T) {
	valid := []string{"us-east-1", "us-west-2", "eu-central-1", "ap-southeast-2", "us-gov-west-1"}
	for _, r := range valid {
		if err := Region(r); err != nil {
			t.Errorf("Region(%q) unexpected error: %v", r, err)
		}
	}

	invalid := []string{"", "us-east", "USEAST1", "us_east_1", "us-east-1a", "1-east-us"}
	for _, r := range invalid {
		if err := Region(r); !errors.Is(err, ErrInvalidRegion) {
			t.Errorf("Region(%q) = %v, want ErrInvalidRegion", r, err)
		}
	}
}

func TestRegions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"two regions", "us-east-1,us-west-2", []string{"us-east-1", "us-west-2"}, false},
		{"whitespace tolerated", " us-east-1 , us-west-2 ", []string{"us-east-1", "us-west-2"}, false},
		{"duplicates collapse", "us-east-1,us-east-1", []string{"us-east-1"}, false},
		{"one bad entry fails all", "us-east-1,bogus", nil, true},
		{"empty list", "", nil, true},
		{"only separators", ",,,", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Regions(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Regions(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Regions(%q) unexpected error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Regions(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Regions(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
