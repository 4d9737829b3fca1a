package cli

import (
	"fmt"

	"github.com/ppiankov/legm/internal/session"
	"github.com/ppiankov/legm/internal/worker"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze every take in a file",
	Long: `Batch reads takes from a file (one per line, # for comments) and analyzes
them one after another in a single session. Submissions are paced with
rate_limiting.requests_per_second so the service is not flooded.

Example:
  legm batch takes.txt
  legm batch takes.txt --json > verdicts.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	takes, err := worker.ReadTakesFromFile(file)
	if err != nil {
		return fmt.Errorf("read takes: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Input file:   %s\n", file)
	fmt.Fprintf(errOut, "  Takes:        %d\n", len(takes))
	fmt.Fprintf(errOut, "  Rate:         %.2f/s (burst %d)\n", a.cfg.RateLimiting.RequestsPerSecond, a.cfg.RateLimiting.BurstSize)
	fmt.Fprintf(errOut, "\n")

	limiter := worker.NewLimiter(a.cfg.RateLimiting.RequestsPerSecond, a.cfg.RateLimiting.BurstSize)
	s := session.New(a.client, a.logger)
	defer s.Close()

	failureCount := 0
	for i, take := range takes {
		if err := limiter.Wait(cmd.Context(), a.client.BaseURL()); err != nil {
			return fmt.Errorf("batch interrupted after %d takes: %w", i, err)
		}

		ctx, cancel := a.requestContext(cmd.Context())
		_, err := s.Submit(ctx, take)
		cancel()
		if err != nil {
			return fmt.Errorf("take %d: %w", i+1, err)
		}

		if msg := s.LastError(); msg != "" {
			failureCount++
			fmt.Fprintf(errOut, "✗ [%d/%d] %s: %s\n", i+1, len(takes), take, msg)
			continue
		}
		fmt.Fprintf(errOut, "✓ [%d/%d] %s\n", i+1, len(takes), take)
	}

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Analyzed:     %d\n", len(takes)-failureCount)
	fmt.Fprintf(errOut, "  Failed:       %d\n", failureCount)
	fmt.Fprintf(errOut, "\n")

	if err := a.printHistory(cmd.OutOrStdout(), s.History()); err != nil {
		return err
	}
	if failureCount > 0 {
		return fmt.Errorf("%w: %d of %d takes", errAnalysisFailed, failureCount, len(takes))
	}
	return nil
}

