package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ocrsynth/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the synthesis HTTP API",
		Long: `Serve the synthesis HTTP API until interrupted.

  POST /v1/synthesize   JSON request, responds with the encoded image
  GET  /v1/profiles     registered condition profiles
  GET  /healthz         liveness`,
		Example: `  ocrsynth serve --addr :8080
  curl -s localhost:8080/v1/synthesize -d '{"text":"HELLO","condition":"noisy","seed":7}' > hello.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Config{Addr: addr, Timeout: timeout})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	return cmd
}
