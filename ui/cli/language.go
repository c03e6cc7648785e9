// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/warden/internal/config"
	"github.com/toeirei/warden/internal/i18n"
)

// languageCmd represents the 'language' command.
// Without arguments it shows the active and available languages; with a
// language code it persists the choice to the config file.
var languageCmd = &cobra.Command{
	Use:   "language [code]",
	Short: "Show or set the output language",
	Long: `Without arguments, shows the active output language and every language
Warden ships translations for. With a language code, switches the output
language and persists the choice to the config file.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		available := i18n.GetAvailableLocales()

		if len(args) == 0 {
			fmt.Printf("Current language: %s\n", i18n.GetLang())
			codes := make([]string, 0, len(available))
			for code := range available {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				fmt.Printf("  %s\t%s\n", code, available[code])
			}
			return nil
		}

		code := args[0]
		if _, ok := available[code]; !ok {
			codes := make([]string, 0, len(available))
			for c := range available {
				codes = append(codes, c)
			}
			sort.Strings(codes)
			return fmt.Errorf("unsupported language %q (available: %s)", code, strings.Join(codes, ", "))
		}

		i18n.Init(code)
		viper.Set("language", code)
		if err := config.Save(); err != nil {
			return fmt.Errorf("could not persist language choice: %w", err)
		}
		fmt.Println(i18n.T("language.cli_set", available[code]))
		return nil
	},
}
