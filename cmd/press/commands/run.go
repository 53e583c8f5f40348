package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/press/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Run tasks in the order given (default: build)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{domain.DefaultTarget}
			}
			return c.app.Run(cmd.Context(), args, runOptions(cmd))
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Clean the output directory and rebuild everything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), []string{domain.DefaultTarget}, runOptions(cmd))
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Publish the output directory to the deploy branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Deploy(cmd.Context(), runOptions(cmd))
		},
	}
	addOutputFlags(cmd)
	return cmd
}
