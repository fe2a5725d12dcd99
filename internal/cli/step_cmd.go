package cli

import (
	"context"
	"fmt"

	"github.com/minitello/minitello/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addProjectFlag registers the --project flag every step command needs.
func addProjectFlag(fs *pflag.FlagSet, projectID *string) {
	fs.StringVar(projectID, "project", "", "Project ID")
}

func newStepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Manage steps inside a project",
	}

	cmd.AddCommand(
		newStepAddCmd(app),
		newStepMoveCmd(app),
		newStepToggleCmd(app),
		newStepRemoveCmd(app),
	)

	return cmd
}

func newStepAddCmd(app *App) *cobra.Command {
	var projectID, parentID, name, description string
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new step",
		RunE: func(cmd *cobra.Command, args []string) error {
			if parentID == "" {
				parentID = projectID
			}
			req := service.CreateStepRequest{
				ProjectID:    projectID,
				ParentStepID: parentID,
				Name:         name,
				Description:  description,
				CreatedByID:  app.UserID,
			}
			if cmd.Flags().Changed("order") {
				req.Order = &order
			}

			step, err := app.Steps.Create(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Created step %s (%s) at position %d\n", step.Name, step.ID, step.OrderIndex)
			return nil
		},
	}

	addProjectFlag(cmd.Flags(), &projectID)
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent step ID (defaults to the project root)")
	cmd.Flags().StringVar(&name, "name", "", "Step name")
	cmd.Flags().StringVar(&description, "desc", "", "Step description")
	cmd.Flags().IntVar(&order, "order", 0, "Position among siblings (defaults to append)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStepMoveCmd(app *App) *cobra.Command {
	var projectID, parentID string
	var order int

	cmd := &cobra.Command{
		Use:   "mv ID",
		Short: "Move a step to a new parent and/or position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := app.Steps.Move(context.Background(), service.MoveStepRequest{
				ProjectID:   projectID,
				StepID:      args[0],
				NewParentID: parentID,
				NewOrder:    order,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Moved step %s to position %d\n", step.Name, step.OrderIndex)
			return nil
		},
	}

	addProjectFlag(cmd.Flags(), &projectID)
	cmd.Flags().StringVar(&parentID, "parent", "", "Destination parent step ID")
	cmd.Flags().IntVar(&order, "order", 0, "Destination position among siblings")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("parent")

	return cmd
}

func newStepToggleCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "toggle ID",
		Short: "Toggle a step between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := app.Steps.ToggleProgress(context.Background(), projectID, args[0])
			if err != nil {
				return err
			}
			state := "not done"
			if step.Progress == 1 {
				state = "done"
			}
			fmt.Printf("Step %s is now %s\n", step.Name, state)
			return nil
		},
	}

	addProjectFlag(cmd.Flags(), &projectID)
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newStepRemoveCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a step and all of its descendants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Steps.Delete(context.Background(), projectID, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted step %s\n", args[0])
			return nil
		},
	}

	addProjectFlag(cmd.Flags(), &projectID)
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
