package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthStatusOK is what a live service reports
const healthStatusOK = "ok"

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis service is up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()

		health, err := a.client.Health(ctx)
		if err != nil {
			return fmt.Errorf("%s: %s", a.client.BaseURL(), describeFailure(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.client.BaseURL(), health.Status)
		if health.Status != healthStatusOK {
			return fmt.Errorf("service reports status %q", health.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
