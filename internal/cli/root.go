package cli

import (
	"context"
	"os"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/spf13/cobra"
)

// App holds the use cases and process hooks the commands run against.
type App struct {
	Plans      app.PlanUseCase
	Generator  app.GenerateUseCase
	Checklists app.ChecklistUseCase
	Importer   app.PlanImportUseCase

	// Serve runs the HTTP API on addr until ctx is cancelled. The serve
	// command is unavailable when nil.
	Serve       func(ctx context.Context, addr string) error
	DefaultAddr string

	// IsInteractive reports whether stdin is a terminal the plan wizard
	// can drive.
	IsInteractive func() bool

	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// defaultUser is the identity commands act on when --user is not given.
func defaultUser() string {
	if u := os.Getenv("CADENCE_USER"); u != "" {
		return u
	}
	return "local"
}

// NewRootCmd creates the top-level "cadence" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var userID string

	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Adaptive study schedule generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&userID, "user", "u", defaultUser(), "User whose plan to act on")

	user := func() string { return userID }

	root.AddCommand(
		newPlanCmd(app, user),
		newExamCmd(app, user),
		newGenerateCmd(app, user),
		newScheduleCmd(app, user),
		newChecklistCmd(app),
		newServeCmd(app),
	)

	return root
}
