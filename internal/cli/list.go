package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/legm/internal/gateway"
	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listOffset int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently analyzed takes",
	Long: `List shows the most recently analyzed takes, newest first.

Example:
  legm list
  legm list --limit 10 --offset 20`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listLimit, "limit", gateway.DefaultListLimit, "number of takes to list")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of takes to skip")
}

func runList(cmd *cobra.Command, args []string) error {
	if listLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	if listOffset < 0 {
		return fmt.Errorf("--offset cannot be negative")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.requestContext(cmd.Context())
	defer cancel()

	takes, err := a.client.ListTakes(ctx, listLimit, listOffset)
	if err != nil {
		return fmt.Errorf("list takes: %s", describeFailure(err))
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(takes)
	}
	for _, t := range takes {
		if err := a.renderer.Summary(out, t); err != nil {
			return err
		}
	}
	if len(takes) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No takes yet")
	}
	return nil
}
