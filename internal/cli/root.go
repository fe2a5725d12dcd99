package cli

import (
	"github.com/minitello/minitello/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands,
// plus the identity the commands act as.
type App struct {
	Projects service.ProjectService
	Steps    service.StepService

	// UserID identifies the acting user for membership checks and
	// authorship. Resolved from the environment by the entrypoint.
	UserID string
}

// NewRootCmd creates the top-level "minitello" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "minitello",
		Short: "Decompose projects into ordered step trees",
	}

	root.AddCommand(
		newProjectCmd(app),
		newStepCmd(app),
	)

	return root
}
