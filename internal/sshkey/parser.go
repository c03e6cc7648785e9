package sshkey

import (
	"fmt"
	"strings"
)

// Parse splits one authorized_keys-style line into algorithm, base64 key
// data and trailing comment. Leading option fields such as from="..." or
// command="..." are skipped; the first ssh-/ecdsa- field marks the start of
// the key proper.
func Parse(rawKey string) (algorithm, keyData, comment string, err error) {
	fields := strings.Fields(rawKey)

	start := -1
	for i, f := range fields {
		if strings.HasPrefix(f, "ssh-") || strings.HasPrefix(f, "ecdsa-") {
			start = i
			break
		}
	}

	switch {
	case len(fields) == 0:
		return "", "", "", fmt.Errorf("empty line")
	case start == -1:
		return "", "", "", fmt.Errorf("no SSH algorithm field found")
	case start+1 >= len(fields):
		return "", "", "", fmt.Errorf("algorithm %s has no key data after it", fields[start])
	}

	algorithm = fields[start]
	keyData = fields[start+1]
	if rest := fields[start+2:]; len(rest) > 0 {
		comment = strings.Join(rest, " ")
	}
	return algorithm, keyData, comment, nil
}
