package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/press/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the output directory and rebuild on source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			port, _ := cmd.Flags().GetInt("port")
			buildFirst, _ := cmd.Flags().GetBool("build")

			opts := app.ServeOptions{
				ConfigPath: configPath(cmd),
				Port:       port,
				Build:      buildFirst,
			}

			switch {
			case cmd.Flags().Changed("no-open"):
				noOpen, _ := cmd.Flags().GetBool("no-open")
				open := !noOpen
				opts.Open = &open
			case cmd.Flags().Changed("open"):
				open, _ := cmd.Flags().GetBool("open")
				opts.Open = &open
			}

			return c.app.Serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default: from config, 3000)")
	cmd.Flags().Bool("open", true, "Open the site in a browser")
	cmd.Flags().Bool("no-open", false, "Do not open a browser")
	cmd.Flags().Bool("build", false, "Run the build task before serving")
	return cmd
}
