package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dev-shimada/cloud-proxy/internal/proxy"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the local routes and the upstream call each one makes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "METHOD\tROUTE\tUPSTREAM")

			for _, d := range proxy.Table(nil) {
				target := "custom"
				if d.Exec == nil {
					method := d.UpstreamMethod
					if method == "" {
						method = d.Method
					}
					target = method + " " + d.UpstreamPath
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Method, d.Pattern, target)
			}

			return tw.Flush()
		},
	}
}
