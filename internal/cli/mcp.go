package cli

import (
	"github.com/spf13/cobra"

	"vfsutil/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve vfsutil tools over the Model Context Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := mcp.NewServer(a.cfg, a.logger, a.files, a.volumes)
			if err != nil {
				return err
			}
			defer server.Stop()
			return server.Start()
		},
	}
}
