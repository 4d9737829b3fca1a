package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ppiankov/legm/internal/cache"
	"github.com/ppiankov/legm/internal/gateway"
	"github.com/ppiankov/legm/internal/lookup"
	"github.com/ppiankov/legm/internal/model"
	"github.com/ppiankov/legm/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var noCache bool

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <id...>",
	Short: "Show permalinked takes by id",
	Long: `Show fetches takes by id from the permalink endpoint, concurrently when
several ids are given, and prints them in the order requested. Fetched takes
are cached in memory and on disk (cache.dir) unless caching is disabled.

Example:
  legm show 42
  legm show 42 43 44 --json
  legm show 42 --no-cache`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid take id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// newLookup wires the permalink lookup with the configured cache
func (a *app) newLookup(disableCache bool) *lookup.Lookup {
	var c cache.Cache
	if a.cfg.Cache.Enabled && !disableCache {
		c = cache.NewMemoryDiskCache(a.cfg.Cache.MemoryTTL, a.cfg.Cache.Dir, a.cfg.Cache.DiskTTL)
	}
	return lookup.New(a.client, c, a.cfg.Cache.DiskTTL, a.logger)
}

func runShow(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := a.requestContext(cmd.Context())
	defer cancel()

	fetcher := worker.NewBatchFetcher(a.newLookup(noCache), a.cfg.Concurrency.Workers)
	results := fetcher.FetchIDs(ctx, ids)

	entries := make([]model.HistoryEntry, 0, len(results))
	failureCount := 0
	for _, r := range results {
		if r.Error != nil {
			failureCount++
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ take %d: %s\n", r.ID, describeFailure(r.Error))
			a.logger.Debug("fetch failed", zap.Int64("take_id", r.ID), zap.Error(r.Error))
			continue
		}
		entries = append(entries, r.Take.Entry())
	}

	if err := a.printHistory(cmd.OutOrStdout(), entries); err != nil {
		return err
	}
	if failureCount > 0 {
		return fmt.Errorf("%d of %d takes could not be fetched", failureCount, len(ids))
	}
	return nil
}

// describeFailure keeps the gateway's user message and surfaces contract violations
func describeFailure(err error) string {
	if errors.Is(err, model.ErrContractViolation) {
		return err.Error()
	}
	return gateway.UserMessage(err)
}
