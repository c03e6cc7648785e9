// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter keeps the locale catalogs honest: it collects every key the
// Go sources reference, diffs them against the YAML locale files in both
// directions, and flags string literals that look like they bypass i18n.T.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Location points at the source line where a literal was seen.
type Location struct {
	Filepath string
	Line     int
}

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

func main() {
	fmt.Println("🔍 Linting translation catalogs...")

	usedKeys, err := findUsedKeys(projectRoot)
	if err != nil {
		fmt.Printf("❌ Could not scan source for keys: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ %d translation keys referenced in source.\n", len(usedKeys))

	localeFiles, err := filepath.Glob(filepath.Join(localesDir, "*.yaml"))
	if err != nil {
		fmt.Printf("❌ Could not list locale files: %v\n", err)
		os.Exit(1)
	}

	// en.yaml is the reference catalog the others are measured against.
	primaryKeys, err := loadKeysFromLocale(filepath.Join(localesDir, primaryLocale))
	if err != nil {
		fmt.Printf("❌ Could not load primary locale '%s': %v\n", primaryLocale, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Primary locale %s carries %d keys.\n\n", primaryLocale, len(primaryKeys))

	untranslatedStrings, err := findUntranslatedStrings(projectRoot, usedKeys, primaryKeys)
	if err != nil {
		fmt.Printf("❌ Could not scan for untranslated strings: %v\n", err)
		os.Exit(1)
	}

	hasMissingKeys := false
	hasOrphanedKeys := false

	fmt.Println("--- Orphaned keys (translated but never referenced) ---")
	var orphanedKeys []string
	for key := range primaryKeys {
		if _, exists := usedKeys[key]; !exists {
			orphanedKeys = append(orphanedKeys, key)
		}
	}
	sort.Strings(orphanedKeys)
	for _, key := range orphanedKeys {
		fmt.Printf("  - orphaned: %s\n", key)
		hasOrphanedKeys = true
	}
	if len(orphanedKeys) == 0 {
		fmt.Println("  ✨ none")
	}
	fmt.Println()

	fmt.Println("--- Missing keys (present in primary, absent elsewhere) ---")
	for _, file := range localeFiles {
		if filepath.Base(file) == primaryLocale {
			continue
		}

		fmt.Printf("%s:\n", file)
		secondaryKeys, err := loadKeysFromLocale(file)
		if err != nil {
			fmt.Printf("  - ❌ could not load %s: %v\n", file, err)
			hasMissingKeys = true
			continue
		}

		var missingKeys []string
		for key := range primaryKeys {
			if _, exists := secondaryKeys[key]; !exists {
				missingKeys = append(missingKeys, key)
			}
		}

		sort.Strings(missingKeys)
		for _, key := range missingKeys {
			fmt.Printf("  - missing: %s\n", key)
			hasMissingKeys = true
		}

		if len(missingKeys) == 0 {
			fmt.Println("  ✨ complete")
		}
	}

	fmt.Println("\n--- Possibly untranslated strings ---")
	if len(untranslatedStrings) > 0 {
		var sortedLiterals []string
		for literal := range untranslatedStrings {
			sortedLiterals = append(sortedLiterals, literal)
		}
		sort.Strings(sortedLiterals)

		for _, literal := range sortedLiterals {
			paths := untranslatedStrings[literal]
			fmt.Printf("  - candidate: \"%s\" (%s:%d)\n", literal, paths[0].Filepath, paths[0].Line)
		}
		// Untranslated strings are a warning only; the history and language
		// commands deliberately print plain English.
	} else {
		fmt.Println("  ✨ none")
	}

	fmt.Println()
	if hasMissingKeys {
		fmt.Println("❌ Locale catalogs are out of sync.")
		os.Exit(1)
	} else if hasOrphanedKeys {
		fmt.Println("⚠️  Orphaned keys found; consider pruning them.")
	} else {
		fmt.Println("✅ Locale catalogs are in sync.")
	}
}

// findUsedKeys collects every translation key the non-test Go sources
// reference.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	// Matches i18n.T("some.key") plus bare string literals shaped like
	// translation keys (e.g. keys assembled in a slice).
	keyPattern := regexp.MustCompile(`i18n\.T\("([^"]+)"|\"([a-z]+\.[a-z\._]+)\"`)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// The linter itself and its testdata must not count as usage.
			if info.Name() == "tools" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, match := range keyPattern.FindAllStringSubmatch(string(content), -1) {
			// Group 1 captures i18n.T arguments, group 2 bare key-shaped literals.
			if len(match) > 1 && match[1] != "" {
				keys[match[1]] = struct{}{}
			} else if len(match) > 2 && match[2] != "" {
				keys[match[2]] = struct{}{}
			}
		}
		return nil
	})

	return keys, err
}

// findUntranslatedStrings flags string literals that look like user-facing
// text reaching the terminal without going through i18n.T.
func findUntranslatedStrings(root string, usedKeys, allKeys map[string]struct{}) (map[string][]Location, error) {
	untranslated := make(map[string][]Location)
	// Any call taking a string literal is a candidate site.
	callPattern := regexp.MustCompile(`([a-zA-Z0-9_]+\.)?([a-zA-Z0-9_]+)\("([^"]+)"`)
	// Calls whose string arguments are never translation candidates.
	skipFuncs := map[string]struct{}{"Print": {}, "Println": {}, "Printf": {}, "Fatal": {}, "Fatalf": {}, "WriteString": {}}
	keyRe := regexp.MustCompile(`^[a-z_]+\.[a-z\._]+$`)

	reAllCaps := regexp.MustCompile(`^[A-Z_]+$`)
	reFormatString := regexp.MustCompile(`^[\s%.,:;()#\d\w-]*%[\s\w-]*$`)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "tools" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		for i, line := range strings.Split(string(content), "\n") {
			for _, match := range callPattern.FindAllStringSubmatch(line, -1) {
				if len(match) < 4 {
					continue
				}
				funcName := match[2]
				literal := match[3]

				if _, skip := skipFuncs[funcName]; skip {
					continue
				}

				// Filter chain; anything surviving it is reported.
				// Already-registered translation key.
				if _, exists := allKeys[literal]; exists {
					continue
				}
				// Shaped like a key even if unregistered.
				if keyRe.MatchString(literal) {
					continue
				}
				// Too short to be a sentence.
				if len(literal) < 4 {
					continue
				}
				// DSNs and URLs.
				if strings.HasPrefix(literal, "http") || strings.HasPrefix(literal, "file:") {
					continue
				}

				// SQL statements.
				upperLiteral := strings.ToUpper(literal)
				sqlKeywords := []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "TRUNCATE ", "PRAGMA ", "CREATE ", "ALTER ", "DROP ", "VACUUM"}
				isSQL := false
				for _, keyword := range sqlKeywords {
					if strings.HasPrefix(upperLiteral, keyword) {
						isSQL = true
						break
					}
				}
				if isSQL {
					continue
				}

				// Go time layouts.
				if strings.HasPrefix(literal, "2006-") {
					continue
				}

				// Audit action constants (ADD_OPERATOR and friends).
				if reAllCaps.MatchString(literal) {
					continue
				}

				// Bare format strings with no real text.
				if reFormatString.MatchString(literal) && !strings.Contains(literal, " ") {
					continue
				}

				untranslated[literal] = append(untranslated[literal], Location{Filepath: path, Line: i + 1})
			}
		}
		return nil
	})

	return untranslated, err
}

// loadKeysFromLocale parses one locale YAML file into its flattened key set.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML walks a parsed YAML tree and records every leaf under its
// dot-separated key path. Warden's locale files are already flat, but nested
// sections still lint correctly if one sneaks in.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			joined := k
			if prefix != "" {
				joined = prefix + "." + k
			}
			flattenYAML(joined, val, keys)
		}
	case []interface{}:
		for i, val := range v {
			flattenYAML(fmt.Sprintf("%s[%d]", prefix, i), val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
