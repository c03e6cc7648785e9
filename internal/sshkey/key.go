// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"fmt"

	"golang.org/x/crypto/ssh"
)

// Key is a parsed and cryptographically checked public key, ready to be
// stored for an operator.
type Key struct {
	Algorithm   string
	Data        string
	Comment     string
	Fingerprint string
}

// String reassembles the canonical "algorithm data comment" line that gets
// written to the parameter store.
func (k Key) String() string {
	if k.Comment == "" {
		return k.Algorithm + " " + k.Data
	}
	return k.Algorithm + " " + k.Data + " " + k.Comment
}

// Validate parses a raw public key line and verifies that the key material
// actually decodes as a key of the declared algorithm. Leading
// authorized_keys options are tolerated and dropped.
func Validate(rawKey string) (Key, error) {
	algorithm, keyData, comment, err := Parse(rawKey)
	if err != nil {
		return Key{}, err
	}

	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(algorithm + " " + keyData))
	if err != nil {
		return Key{}, fmt.Errorf("invalid public key data: %w", err)
	}

	return Key{
		Algorithm:   algorithm,
		Data:        keyData,
		Comment:     comment,
		Fingerprint: ssh.FingerprintSHA256(pub),
	}, nil
}

// CheckAlgorithm returns a human-readable warning when the algorithm should
// no longer be used for new keys, or an empty string when it is fine.
func CheckAlgorithm(algorithm string) string {
	switch algorithm {
	case ssh.KeyAlgoRSA:
		return "Warning: ssh-rsa keys are deprecated and may be rejected by modern servers; consider an ed25519 key."
	case ssh.KeyAlgoDSA:
		return "Warning: ssh-dss keys are obsolete and must be replaced."
	}
	return ""
}
