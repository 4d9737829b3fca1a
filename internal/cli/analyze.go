package cli

import (
	"fmt"
	"strings"

	"github.com/ppiankov/legm/internal/session"
	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <take...>",
	Short: "Analyze a single take",
	Long: `Analyze sends one take to the analysis service and prints the verdict,
the roast, the stats used, the chart and the share link.

Example:
  legm analyze "Jokic is the best center in the league"
  legm analyze LeBron is washed --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	s := session.New(a.client, a.logger)
	defer s.Close()

	ctx, cancel := a.requestContext(cmd.Context())
	defer cancel()

	if !jsonOut {
		s.OnChange(func(st session.State) {
			_ = a.renderer.Status(cmd.ErrOrStderr(), st)
		})
	}

	submitted, err := s.Submit(ctx, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("analyze take: %w", err)
	}
	if !submitted {
		return fmt.Errorf("nothing to analyze: take is empty")
	}

	state := s.Snapshot()
	if err := a.printHistory(cmd.OutOrStdout(), state.History); err != nil {
		return err
	}
	if state.LastError != "" {
		if jsonOut {
			return fmt.Errorf("%w: %s", errAnalysisFailed, state.LastError)
		}
		return errAnalysisFailed
	}
	return nil
}
