package cli

import (
	"context"
	"fmt"

	"github.com/minitello/minitello/internal/cli/formatter"
	"github.com/minitello/minitello/internal/tree"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectCreateCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectEditCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := app.Projects.Create(context.Background(), name, description, app.UserID)
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s (%s)\n", root.Name, root.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "desc", "", "Project description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects you are a member of",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), app.UserID)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No projects yet. Create one with: minitello project create --name ...")
				return nil
			}
			for _, p := range projects {
				fmt.Printf("%s  %s  %s\n",
					formatter.TruncID(p.ID),
					formatter.RenderProgress(p.Progress, 10),
					formatter.Bold(p.Name))
			}
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a project's step tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := app.Steps.GetProjectTree(context.Background(), args[0], app.UserID)
			if err != nil {
				return err
			}

			var items []formatter.TreeItem
			tree.Walk(roots, func(n *tree.Node, depth int) {
				last := true
				if n.Parent != nil {
					siblings := n.Parent.Children
					last = siblings[len(siblings)-1] == n
				}
				items = append(items, formatter.TreeItem{
					Title:    n.Name,
					Level:    depth,
					IsLast:   last,
					Progress: n.Progress,
					Leaf:     len(n.Children) == 0,
				})
			})
			fmt.Print(formatter.RenderTree(items))
			return nil
		},
	}
}

func newProjectEditCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename or describe a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := app.Projects.Update(context.Background(), args[0], name, description)
			if err != nil {
				return err
			}
			fmt.Printf("Updated project %s\n", root.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&description, "desc", "", "New project description")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a project and its whole step tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.Delete(context.Background(), args[0], app.UserID); err != nil {
				return err
			}
			fmt.Printf("Deleted project %s\n", args[0])
			return nil
		},
	}
}
