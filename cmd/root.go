// Package cmd implements the moltstore CLI commands.
package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"moltstore/crypt"
	"moltstore/db"
	"moltstore/store"
	"moltstore/utils"
)

var (
	// Global flags
	configFlag string
	dbFlag     string
	verbose    bool
)

var (
	// Styles shared across commands
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var rootCmd = &cobra.Command{
	Use:   "moltstore",
	Short: "Inspect and maintain the encrypted chat history store",
	Long: `moltstore manages the locally persisted, encrypted conversation history.

Conversation titles and message bodies are encrypted at rest with a key held
in the OS keychain. Commands decrypt on the fly, so they only produce useful
output on the machine that owns the key.

Examples:
  moltstore list
  moltstore search "connection refused"
  moltstore export 4f1c9b2a --format markdown
  moltstore prune --days 90
  moltstore stats`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to the database file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to file and echo to stdout")
}

// app bundles everything a command needs once the store is open.
type app struct {
	cfg      *utils.Config
	logger   *utils.Logger
	database *db.DB
	service  *store.Service
}

func (a *app) Close() {
	a.database.Close()
	a.logger.Close()
}

func openApp() (*app, error) {
	configPath := configFlag
	if configPath == "" {
		var err error
		configPath, err = utils.EnsureDefaultConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to prepare config: %w", err)
		}
	}

	cfg, err := utils.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := utils.New(io.Discard)
	if verbose {
		logger, err = utils.NewLogger(utils.GetLogPath(cfg.Log.Dir))
		if err != nil {
			return nil, err
		}
	}

	dbPath := cfg.Data.DBPath
	if dbFlag != "" {
		dbPath = dbFlag
	}

	database, err := db.New(dbPath)
	if err != nil {
		logger.Close()
		return nil, err
	}

	keys := crypt.NewKeyManager(&crypt.KeyringStore{Service: cfg.Keychain.Service}, crypt.DefaultKeyName)
	service := store.NewService(database, crypt.NewCipher(keys), logger)

	return &app{cfg: cfg, logger: logger, database: database, service: service}, nil
}

// runWithApp opens the store for a command and tears it down afterwards.
func runWithApp(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		defer utils.RecoverFromPanic(a.logger, cmd.Name())

		return fn(a, cmd, args)
	}
}
