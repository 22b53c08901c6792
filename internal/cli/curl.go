package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/chimney/httpclient"
)

func newCurlCommand(g *globalOptions) *cobra.Command {
	opts := &requestOptions{}
	cmd := &cobra.Command{
		Use:   "curl METHOD [SEGMENT...]",
		Short: "Print the curl command for a request without sending it",
		Long: `Build the request exactly as 'chimney request' would and print an
equivalent curl command. Nothing is sent.`,
		Example: `  chimney curl POST todos --encoding query -d '{"title":"a b","userId":3}'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.parse(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(g.configFile)
			if err != nil {
				return err
			}
			if err := opts.apply(&cfg.HTTP); err != nil {
				return err
			}
			client, err := httpclient.New(cfg.HTTP)
			if err != nil {
				return err
			}
			defer client.Close()

			req, err := c.prepare(client)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), httpclient.CurlCommand(req, c.encoding))
			return err
		},
	}
	opts.register(cmd)
	return cmd
}
