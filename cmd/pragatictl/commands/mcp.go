package commands

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/okian/pragati/internal/adapters/mcptools"
)

func newMCPCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analyses as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, _, closeSvc, err := g.openService(ctx)
			if err != nil {
				return err
			}
			defer closeSvc()
			if err := svc.Start(ctx); err != nil {
				return err
			}
			return server.ServeStdio(mcptools.New(svc))
		},
	}
}
