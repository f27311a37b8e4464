// Package ui implements the focal command line interface.
package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgilabert/focal/internal/config"
	"github.com/mgilabert/focal/internal/db"
	"github.com/mgilabert/focal/internal/session"
	"github.com/mgilabert/focal/internal/task"
	"github.com/mgilabert/focal/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   task.Repository
	store  session.Store
	config *config.Config
	root   *cobra.Command
}

// NewApp creates a new CLI application. repo and store may be nil; they are
// opened lazily from the configured database path on first use.
func NewApp(repo task.Repository, store session.Store, cfg *config.Config) *App {
	a := &App{repo: repo, store: store, config: cfg}

	a.root = &cobra.Command{
		Use:   "focal",
		Short: "A personal planner with auto-scheduling and focus tracking",
		Long: `Focal is a personal productivity planner.

It keeps projects as task trees, fits the backlog into your working
hours automatically, runs focus timer sessions, and drafts project
plans with AI assistance. Run without arguments to open the planner.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.Run(a.repo, a.store, a.config)
		},
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.draftCmd())
	a.root.AddCommand(a.breakdownCmd())
	a.root.AddCommand(a.connectCmd())
	a.root.AddCommand(a.sessionsCmd())
	a.root.AddCommand(a.weekCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("focal %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRepo opens the SQLite store on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	if a.config == nil {
		return errors.New("no configuration loaded")
	}

	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = store
	a.store = store
	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository if one was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
