package cli

import "github.com/spf13/cobra"

var version = "dev"

type rootOptions struct {
	configFile string
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "cloud-proxy",
		Short:         "REST proxy over the Cloudflare and AWS Lightsail APIs",
		Long:          "cloud-proxy serves a small JSON REST surface and forwards each call to Cloudflare (zones, DNS, settings, cache, page rules) or AWS Lightsail (instances), injecting the provider credentials.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "optional config file (toml, yaml or json); environment variables take precedence")

	serveCmd := newServeCmd(opts)
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(
		serveCmd,
		newRoutesCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
