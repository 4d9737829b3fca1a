package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/legm/internal/meta"
	"github.com/ppiankov/legm/internal/share"
	"github.com/spf13/cobra"
)

var metaOut string

// metaCmd represents the meta command
var metaCmd = &cobra.Command{
	Use:   "meta <id>",
	Short: "Render the share preview page for a take",
	Long: `Meta fetches a take and renders the static HTML page served at its
permalink, with OpenGraph and Twitter card tags for link previews.

Example:
  legm meta 42
  legm meta 42 --out take-42.html`,
	Args: cobra.ExactArgs(1),
	RunE: runMeta,
}

func init() {
	rootCmd.AddCommand(metaCmd)

	metaCmd.Flags().StringVarP(&metaOut, "out", "o", "", "write the page to a file instead of stdout")
}

func runMeta(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	id := ids[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.requestContext(cmd.Context())
	defer cancel()

	detail, err := a.newLookup(false).GetTake(ctx, id)
	if err != nil {
		return fmt.Errorf("take %d: %s", id, describeFailure(err))
	}

	page, err := meta.Render(meta.Page{
		Detail:    *detail,
		Permalink: share.PermalinkURL(a.cfg.Site.BaseURL, detail.ID),
		ChartURL:  share.ResolveChartURL(a.cfg.API.BaseURL, detail.ChartURL),
	})
	if err != nil {
		return err
	}

	if metaOut == "" {
		_, err = cmd.OutOrStdout().Write(page)
		return err
	}
	if err := os.WriteFile(metaOut, page, 0644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", metaOut)
	return nil
}
