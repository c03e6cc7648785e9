// Copyright (c) 2025 ToeiRei
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n localizes Warden's command output. Translations live in
// embedded YAML catalogs managed through the go-i18n library; T is the one
// lookup function the rest of the code uses.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS carries the translation catalogs inside the binary, so a deployed
// warden needs no locale files on disk.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var bundle *i18n.Bundle

// localizer resolves message IDs for the active language.
var localizer *i18n.Localizer

// currentLang remembers the language the localizer was built for.
var currentLang string

// localeDisplayNames maps locale codes to human-readable names for the
// language picker. Codes without an entry fall back to the code itself.
var localeDisplayNames = map[string]string{
	"en": "English",
	"de": "Deutsch",
}

// Init parses every embedded catalog and builds a localizer for lang.
// Calling it again switches the active language.
func Init(lang string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		bundle.ParseMessageFileBytes(data, f.Name())
	}

	localizer = i18n.NewLocalizer(bundle, lang)
	currentLang = lang
}

// T translates a message by its ID. Extra arguments are applied with
// fmt.Sprintf to the translated string, so locale entries may carry printf
// verbs. Before Init has run, T brings the catalog up in English first.
// An unknown ID comes back verbatim rather than as an error.
func T(messageID string, args ...interface{}) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		// Unknown IDs come back as themselves; an untranslated key on
		// screen beats a crash or an empty line.
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SetLang switches the catalog to another language.
func SetLang(lang string) {
	Init(lang)
}

// GetLang returns the language code the localizer is currently using.
func GetLang() string {
	if currentLang == "" {
		return "en"
	}
	return currentLang
}

// GetAvailableLocales lists the embedded locales as a code to display-name map.
func GetAvailableLocales() map[string]string {
	locales := map[string]string{}
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		code := strings.TrimSuffix(f.Name(), ".yaml")
		if name, ok := localeDisplayNames[code]; ok {
			locales[code] = name
		} else {
			locales[code] = code
		}
	}
	return locales
}
