package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/ppiankov/legm/internal/gateway"
	"github.com/ppiankov/legm/internal/model"
	"github.com/ppiankov/legm/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	jsonOut bool
	noColor bool
	apiURL  string
)

// errAnalysisFailed marks a run whose takes were dispatched but not analyzed.
// The failure itself has already been rendered.
var errAnalysisFailed = errors.New("analysis failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "legm",
	Short: "LeGM - get your basketball takes judged",
	Long: `LeGM submits basketball takes to the LeGM analysis service and shows
the verdict: TRASH, VALID or MID, with a confidence score, a roast, the
stats behind it and a chart when one was drawn.

Every analyzed take gets a permalink and a ready-to-post share link.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command; Ctrl-C cancels in-flight requests
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "legm %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.legm/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "analysis service origin (overrides api.base_url)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.legm")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LEGM_*
	bindEnv(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv maps LEGM_API_BASE_URL style variables onto dotted keys
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("LEGM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key so env variables reach Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)
	v.SetDefault("api.http_proxy", cfg.API.HTTPProxy)
	v.SetDefault("api.https_proxy", cfg.API.HTTPSProxy)
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("output.color", cfg.Output.Color)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig resolves flags, env, config file and defaults into a validated config
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	setDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the JSON stderr logger, debug level when verbose
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zcfg.DisableStacktrace = !verbose
	return zcfg.Build()
}

// app is the wiring shared by every command that talks to the service
type app struct {
	cfg      *model.Config
	logger   *zap.Logger
	client   *gateway.Client
	renderer *render.Renderer
}

func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	client := gateway.NewClient(cfg.API.BaseURL, gateway.Options{
		UserAgent:  cfg.API.UserAgent,
		HTTPProxy:  cfg.API.HTTPProxy,
		HTTPSProxy: cfg.API.HTTPSProxy,
		Logger:     logger,
	})
	logger.Debug("client configured",
		zap.String("api", cfg.API.BaseURL),
		zap.Duration("timeout", cfg.API.Timeout))

	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		renderer: render.NewRenderer(cfg.API.BaseURL, cfg.Site.BaseURL, cfg.Output.Color && !noColor),
	}, nil
}

func (a *app) close() {
	a.client.CloseIdleConnections()
	_ = a.logger.Sync()
}

// requestContext bounds one request by api.timeout; 0 leaves it unbounded
func (a *app) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.API.Timeout > 0 {
		return context.WithTimeout(parent, a.cfg.API.Timeout)
	}
	return context.WithCancel(parent)
}

// printHistory writes the analyzed takes as cards or JSON
func (a *app) printHistory(w io.Writer, history []model.HistoryEntry) error {
	if jsonOut {
		return a.renderer.JSON(w, history)
	}
	for i, entry := range history {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := a.renderer.Entry(w, i, entry); err != nil {
			return err
		}
	}
	return nil
}
