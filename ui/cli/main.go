// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go assembles Warden's Cobra command tree: the root command, the
// subcommands (sync, add, remove, audit, backup and friends), their flags,
// and the shared service setup every command runs through.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/warden/buildvars"
	"github.com/toeirei/warden/internal/config"
	"github.com/toeirei/warden/internal/db"
	"github.com/toeirei/warden/internal/i18n"
	"github.com/toeirei/warden/internal/logging"
	"github.com/toeirei/warden/internal/operator"
	"github.com/toeirei/warden/internal/store"
	"github.com/toeirei/warden/internal/validate"
)

var version = "dev"   // overridden via ldflags
var gitCommit = "dev" // short commit SHA injected at build time
var buildDate = ""    // RFC3339, injected at build time
var cfgFile string
var fullRestore bool // restore --full
var verbose bool
var showVersionFlag bool

var appConfig config.Config

// newStoreFunc is a package-level variable so tests can inject an in-memory
// parameter store. By default it opens a real SSM client for the region.
var newStoreFunc = func(ctx context.Context, region string) (store.Store, error) {
	return store.NewSSMStore(ctx, region)
}

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type":        "sqlite",
		"database.dsn":         "./warden.db",
		"language":             "en",
		"params.operators_key": "/warden/operators",
		"params.key_prefix":    "/warden/keys",
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// Missing config file just means first run; anything else is fatal.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// Running on defaults still works without a config file on disk.
			log.Warnf("could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	logging.Debugf("config file in use: %q", viper.ConfigFileUsed())

	// A config file that exists but leaves these blank would otherwise wipe
	// the defaults; refill both the struct and viper so later saves keep the
	// effective values.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
		viper.Set("database.type", appConfig.Database.Type)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
		viper.Set("database.dsn", appConfig.Database.Dsn)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
		viper.Set("language", appConfig.Language)
	}
	if appConfig.Params.OperatorsKey == "" {
		appConfig.Params.OperatorsKey = defaults["params.operators_key"].(string)
		viper.Set("params.operators_key", appConfig.Params.OperatorsKey)
	}
	if appConfig.Params.KeyPrefix == "" {
		appConfig.Params.KeyPrefix = defaults["params.key_prefix"].(string)
		viper.Set("params.key_prefix", appConfig.Params.KeyPrefix)
	}

	i18n.Init(appConfig.Language)

	// Tests and earlier setup may have installed a store already.
	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}

	return nil
}

// Execute runs the CLI entrypoint. The cmd/warden main package should call
// this function and handle process exit.
func Execute() error {
	rootCmd := NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		return err
	}

	return nil
}

func applyDefaultFlags(cmd *cobra.Command) {
	// The subcommands are package-level while NewRootCmd may run several
	// times in tests; pflag panics on a duplicate definition, so look each
	// flag up first.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Audit database type (sqlite, postgres, mysql)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "./warden.db", "Audit database DSN")
	}
	if cmd.Flags().Lookup("regions") == nil {
		cmd.Flags().StringSlice("regions", nil, "AWS regions to operate on (repeatable or comma-separated)")
	}
	if cmd.Flags().Lookup("params.operators_key") == nil {
		cmd.Flags().String("params.operators_key", "/warden/operators", "Parameter holding the operator username list")
	}
	if cmd.Flags().Lookup("params.key_prefix") == nil {
		cmd.Flags().String("params.key_prefix", "/warden/keys", "Parameter path prefix for per-operator SSH keys")
	}
}

// getConfigPathFromCli returns the --config value when the user set it, after
// checking the file actually exists. A nil result means "use the search path".
func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	// An explicitly empty value falls back to the search path.
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd builds the root cobra command with all subcommands and flags
// attached. Tests call it to get an isolated command tree per case.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warden",
		Short: "Warden keeps SSH operator access in sync across AWS regions.",
		Long: `Warden manages the SSH operators allowed onto your fleet by driving
AWS SSM Parameter Store. A single operator-list parameter per region names
who is allowed in, and each operator's public key lives under a key prefix
alongside it. Warden reconciles those parameters across every configured
region and keeps a local audit trail of each change.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Println(compositeVersion())
				os.Exit(0)
			}
			if verbose {
				logging.SetDebug(true)
				db.SetDebug(true)
			}
			return setupDefaultServices(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No interactive mode; running bare prints usage.
			return cmd.Help()
		},
	}

	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (includes DB debug logs)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)
	applyDefaultFlags(cmd)

	// Wire per-command flags before attaching the commands.
	registerOperatorCommands()
	applyDefaultFlags(syncCmd)
	applyDefaultFlags(addCmd)
	applyDefaultFlags(removeCmd)
	applyDefaultFlags(listCmd)
	applyDefaultFlags(showKeyCmd)
	applyDefaultFlags(auditCmd)
	applyDefaultFlags(backupCmd)
	applyDefaultFlags(restoreCmd)
	if restoreCmd.Flags().Lookup("full") == nil {
		restoreCmd.Flags().BoolVar(&fullRestore, "full", false, "Overwrite every region's operator list with the backup contents, even where they differ")
	}
	applyDefaultFlags(historyCmd)
	applyDefaultFlags(languageCmd)
	applyDefaultFlags(dbMaintainCmd)
	if dbMaintainCmd.Flags().Lookup("timeout") == nil {
		dbMaintainCmd.Flags().Int("timeout", 0, "Abort maintenance after this many seconds (0 waits forever)")
	}

	// Plain `warden version` for scripts and CI.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", v)
			fmt.Printf("commit: %s\n", c)
			if d != "" {
				fmt.Printf("built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		syncCmd,
		addCmd,
		removeCmd,
		listCmd,
		showKeyCmd,
		auditCmd,
		backupCmd,
		restoreCmd,
		historyCmd,
		languageCmd,
		dbMaintainCmd,
		versionCmd,
	)

	return cmd
}

// compositeVersion renders the one-line form shown by --version and -V:
// version, then the commit in parentheses, then the build date.
func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion returns the best-available version, commit and build
// date for the running binary, preferring runtime build info over the
// ldflags defaults. Passing a non-nil info pins the build info, which is
// what the unit tests do.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths leave Main.Version empty; the module can still
		// appear among the dependencies with a usable version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/warden" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// No version anywhere but a commit was injected: show the commit so
	// support tickets still carry something identifiable.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}

// newOperatorManager resolves the configured regions and parameter names and
// builds a manager with one store per region. Region resolution prefers the
// --regions flag, then the config file; there is no implicit default region.
func newOperatorManager(cmd *cobra.Command) (*operator.Manager, error) {
	regions := appConfig.Regions
	if cmd.Flags().Changed("regions") {
		flagRegions, err := cmd.Flags().GetStringSlice("regions")
		if err != nil {
			return nil, fmt.Errorf("could not read --regions flag: %w", err)
		}
		regions = flagRegions
	}
	if len(regions) == 0 {
		return nil, errors.New(i18n.T("cli.error_no_regions"))
	}
	// Entries from the environment or config file may themselves be
	// comma-joined; split, validate and deduplicate in one pass.
	regions, err := validate.Regions(strings.Join(regions, ","))
	if err != nil {
		return nil, err
	}

	operatorsKey, err := validate.ParamName(appConfig.Params.OperatorsKey)
	if err != nil {
		return nil, err
	}
	keyPrefix, err := validate.ParamName(appConfig.Params.KeyPrefix)
	if err != nil {
		return nil, err
	}

	stores := make([]store.Store, 0, len(regions))
	for _, region := range regions {
		st, err := newStoreFunc(cmd.Context(), region)
		if err != nil {
			return nil, errors.New(i18n.T("cli.error_store_init", region, err))
		}
		stores = append(stores, st)
	}
	return operator.NewManager(operatorsKey, keyPrefix, stores...), nil
}

// dbMaintainCmd compacts and tunes the audit database in place.
var dbMaintainCmd = &cobra.Command{
	Use:     "db-maintain",
	Short:   "Compact and optimize the local audit database",
	Long:    `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize) against the local audit database.`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeoutSec, _ := cmd.Flags().GetInt("timeout")
		dsn := appConfig.Database.Dsn
		dbType := appConfig.Database.Type
		if timeoutSec > 0 {
			done := make(chan error, 1)
			go func() {
				done <- db.RunDBMaintenance(dbType, dsn)
			}()
			select {
			case err := <-done:
				if err != nil {
					return fmt.Errorf("maintenance failed: %w", err)
				}
				fmt.Println("Database maintenance complete.")
			case <-time.After(time.Duration(timeoutSec) * time.Second):
				return errors.New("maintenance timed out")
			}
			return nil
		}
		if err := db.RunDBMaintenance(dbType, dsn); err != nil {
			return fmt.Errorf("maintenance failed: %w", err)
		}
		fmt.Println("Database maintenance complete.")
		return nil
	},
}

// promptForConfirmation prints the prompt and returns the lowercased,
// trimmed line the user typed.
func promptForConfirmation(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}
