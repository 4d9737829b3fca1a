package cli

import (
	"bufio"
	"fmt"

	"github.com/ppiankov/legm/internal/session"
	"github.com/spf13/cobra"
)

// sessionCmd represents the interactive session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Analyze takes interactively, one per line",
	Long: `Session reads takes from stdin, one per line, and analyzes them in order.
Blank lines are ignored. History is kept for the session only and is printed
as JSON on exit when --json is set.

Example:
  legm session
  cat takes.txt | legm session --json`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	s := session.New(a.client, a.logger)
	defer s.Close()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	s.OnChange(func(st session.State) {
		_ = a.renderer.Status(errOut, st)
	})

	fmt.Fprintf(errOut, "LeGM session %s. One take per line, Ctrl-D to finish.\n", s.ID())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if cmd.Context().Err() != nil {
			break
		}
		before := len(s.History())

		ctx, cancel := a.requestContext(cmd.Context())
		_, err := s.Submit(ctx, scanner.Text())
		cancel()
		if err != nil {
			return fmt.Errorf("analyze take: %w", err)
		}

		if history := s.History(); len(history) > before && !jsonOut {
			last := len(history) - 1
			if err := a.renderer.Entry(out, last, history[last]); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read takes: %w", err)
	}

	history := s.History()
	fmt.Fprintf(errOut, "%d takes analyzed\n", len(history))
	if jsonOut {
		return a.renderer.JSON(out, history)
	}
	return nil
}
