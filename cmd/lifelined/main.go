package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/lifeline/internal/cliconfig"
	logAdapter "github.com/bft-labs/lifeline/pkg/log"
	"github.com/bft-labs/lifeline/pkg/runner"
	"github.com/bft-labs/lifeline/plugins/drainwatcher"
	"github.com/bft-labs/lifeline/plugins/statusfile"
)

const helpDescription = `
Run a supervised heartbeat daemon with lifecycle tracking, healthchecks,
and drain-file support.

Highlights:
  - Tracks the daemon through new/starting/running/stopping/terminated states.
  - Serves /statusz and /healthz over HTTP when --admin-addr is set.
  - Touch the drain file to request a graceful shutdown from outside.
  - Configure via file, environment (LIFELINED_*), or flags.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  lifelined --admin-addr :8089
  lifelined --config $HOME/.lifelined/config.toml --drain-file /var/run/lifelined.drain
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "lifelined",
		Short:   "Run a supervised heartbeat daemon with lifecycle tracking and healthchecks",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.lifelined/config.toml), then apply flag overrides
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Apply environment variables (LIFELINED_*)
			// These override file config but are overridden by flags (checked via changed map)
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cliconfig.SetLogLevel(cfg.LogLevel); err != nil {
				return err
			}
			log = cliconfig.Logger()

			log.Info().Interface("config", cfg).Msg("configuration")

			hb := newHeartbeat(cfg.HeartbeatInterval)

			opts := []runner.Option{
				runner.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
				runner.WithShutdownTimeout(cfg.ShutdownTimeout),
				runner.WithService(hb),
				runner.WithHealthcheck(hb.Healthcheck()),
			}
			if cfg.AdminAddr != "" {
				opts = append(opts, runner.WithAdminAddr(cfg.AdminAddr))
			}
			if cfg.DrainFile != "" {
				opts = append(opts, drainwatcher.WithDrainWatcher(drainwatcher.Config{Path: cfg.DrainFile}))
			}
			if cfg.StatusFile != "" {
				opts = append(opts, statusfile.WithStatusFile(statusfile.Config{Path: cfg.StatusFile}))
			}

			r, err := runner.New(opts...)
			if err != nil {
				return fmt.Errorf("create runner: %w", err)
			}

			// Signals cancel the context; Run performs the graceful shutdown.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return r.Run(ctx)
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.lifelined/config.toml)")
	root.Flags().StringVar(&cfg.AdminAddr, "admin-addr", cfg.AdminAddr, "listen address for /statusz and /healthz (empty disables)")
	root.Flags().StringVar(&cfg.DrainFile, "drain-file", cfg.DrainFile, "path watched for drain requests (empty disables)")
	root.Flags().StringVar(&cfg.StatusFile, "status-file", cfg.StatusFile, "path for the JSON status snapshot (empty disables)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "maximum time to wait for services during shutdown")
	root.Flags().DurationVar(&cfg.HeartbeatInterval, "heartbeat-interval", cfg.HeartbeatInterval, "interval between heartbeat ticks")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("lifelined")
		os.Exit(1)
	}
}
