package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/plexsync/plexsync/internal/config"
	"github.com/plexsync/plexsync/internal/logger"
	"github.com/plexsync/plexsync/internal/plex"
	"github.com/plexsync/plexsync/internal/server"
	"github.com/plexsync/plexsync/internal/store"
	syncengine "github.com/plexsync/plexsync/internal/sync"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	plexURL   string
	plexToken string
	dryRun    bool
	cfg       *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plexsync",
	Short: "Media server to local user store synchronization tool",
	Long: `A tool for synchronizing user accounts between a Plex media server
and the application's own user database.

This application supports two modes:
- One-shot mode: Run synchronization once and exit
- Server mode: Run continuously with scheduled synchronization and HTTP API`,
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run user synchronization once",
	Long: `Run a single synchronization pass. Remote accounts missing locally are
imported, local records whose account no longer exists remotely are removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

// librariesCmd represents the libraries command
var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List the media server's library sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraries(cmd.Context())
	},
}

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Fetch a single remote account",
	Long:  `Fetch one remote account by username, email address or account identifier.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUser(cmd.Context(), args[0])
	},
}

// deleteUserCmd represents the delete-user command
var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <id>",
	Short: "Delete a remote account",
	Long: `Remove an account from the media server. Both the friend and the home-user
relationship are revoked; the account is not required to exist.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeleteUser(cmd.Context(), args[0])
	},
}

// validateConfigCmd represents the validate-config command
var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file for syntax and required fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfig()
	},
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run in server mode with HTTP API and optional scheduling",
	Long: `Run the application in server mode. This provides an HTTP API for manual sync
operations, health checks, and metrics. If scheduling is enabled in configuration,
automatic sync operations will run according to the specified cron schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("plexsync version 0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&plexURL, "plex-url", "", "media server URL (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&plexToken, "plex-token", "", "media server API token (overrides configuration)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log intended changes without applying them")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(librariesCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(deleteUserCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(validateConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in the config file and applies flag overrides
func initConfig() {
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfgFile, err = config.FindConfigFile()
		if err != nil {
			// No config file; explicit flags may still carry the address
			// and credential
			cfg = &config.Config{}
			err = nil
		} else {
			cfg, err = config.Load(cfgFile)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Explicit arguments win over the configuration file
	if plexURL != "" {
		cfg.Plex.URL = plexURL
	}
	if plexToken != "" {
		cfg.Plex.Token = plexToken
	}
	if dryRun {
		cfg.App.DryRun = true
	}

	cfg.SetDefaults()
}

// setup validates the configuration and builds a fresh sync engine. The
// returned *sql.DB must be closed by the caller.
func setup(ctx context.Context) (*syncengine.Engine, *sql.DB, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration not loaded")
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log := logger.Setup(cfg.App.LogLevel, cfg.App.DryRun)

	db, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open user store: %w", err)
	}

	plexClient := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token)
	engine := syncengine.NewEngine(plexClient, store.NewSQLiteRepository(db), cfg, log)

	return engine, db, nil
}

// runSync executes the main synchronization logic
func runSync(ctx context.Context) error {
	engine, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := engine.SyncUsers(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Sync completed: %d accounts seen, %d users created, %d users deleted\n",
		result.AccountsSeen, result.UsersCreated, result.UsersDeleted)

	return nil
}

// runLibraries lists the media server's library sections
func runLibraries(ctx context.Context) error {
	engine, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	libraries, err := engine.Libraries(ctx)
	if err != nil {
		return err
	}

	if len(libraries) == 0 {
		fmt.Println("No libraries found")
		return nil
	}

	for _, library := range libraries {
		fmt.Printf("%s\t%s (%s)\n", library.Key, library.Title, library.Type)
	}

	return nil
}

// runUser fetches a single remote account
func runUser(ctx context.Context, userID string) error {
	engine, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	account, err := engine.Account(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Printf("ID:       %s\n", account.ID)
	fmt.Printf("Username: %s\n", account.Username)
	fmt.Printf("Email:    %s\n", account.Email)
	if account.Home {
		fmt.Println("Home:     yes")
	}

	return nil
}

// runDeleteUser deletes a remote account
func runDeleteUser(ctx context.Context, userID string) error {
	engine, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := engine.DeleteAccount(ctx, userID); err != nil {
		return err
	}

	fmt.Printf("Account %s deleted\n", userID)
	return nil
}

// validateConfig validates the configuration file
func validateConfig() error {
	if cfg == nil {
		var err error
		if cfgFile == "" {
			cfgFile, err = config.FindConfigFile()
			if err != nil {
				return fmt.Errorf("no config file found: %w", err)
			}
		}
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.SetDefaults()
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed:\n%v\n", err)
		return err
	}

	fmt.Printf("Configuration file '%s' is valid\n", cfgFile)
	fmt.Printf("   - Media server URL: %s\n", cfg.Plex.URL)
	fmt.Printf("   - Database path: %s\n", cfg.Database.Path)
	fmt.Printf("   - Dry run: %t\n", cfg.App.DryRun)
	fmt.Printf("   - Log level: %s\n", cfg.App.LogLevel)

	return nil
}

// runServer executes server mode
func runServer() error {
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	log := logger.Setup(cfg.App.LogLevel, cfg.App.DryRun)

	log.Infof("Starting sync server on port %d", cfg.Server.Port)
	if cfg.Server.ScheduleEnabled {
		log.Infof("Scheduling enabled with cron: %s", cfg.Server.Schedule)
	} else {
		log.Info("Scheduling disabled - manual sync only")
	}

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.Errorf("Failed to create server: %v", err)
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
