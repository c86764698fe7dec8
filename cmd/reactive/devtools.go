package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/reactive/internal/config"
	"github.com/vango-dev/reactive/pkg/devtools"
	"github.com/vango-dev/reactive/pkg/observe"
	"github.com/vango-dev/reactive/pkg/reactive"
)

func devtoolsCmd(flags *globalFlags) *cobra.Command {
	var (
		addr       string
		interval   time.Duration
		noWorkload bool
	)

	cmd := &cobra.Command{
		Use:   "devtools",
		Short: "Serve the devtools endpoint",
		Long: `Record reactive events and serve them over HTTP and WebSocket.

Unless --no-workload is given the demo workload runs on an interval
so there is something to watch.

Routes:
  GET  /stats     recorder counters
  GET  /events    buffered events (?limit=N)
  GET  /ws        live event stream
  GET  /metrics   Prometheus metrics
  POST /reset     start a new recording
  POST /archive   upload the recording to S3 (needs archive.bucket)

Examples:
  reactive devtools
  reactive devtools --addr=:7070 --interval=500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Devtools.Addr = addr
			}
			if interval > 0 {
				cfg.Devtools.Interval = interval
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runDevtools(ctx, cmd, cfg, !noWorkload)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Workload interval (default from config)")
	cmd.Flags().BoolVar(&noWorkload, "no-workload", false, "Do not run the demo workload")

	return cmd
}

func runDevtools(ctx context.Context, cmd *cobra.Command, cfg *config.Config, withWorkload bool) error {
	logger := setupLogging(cfg, cmd.ErrOrStderr())

	recorder := observe.NewRecorder(cfg.Devtools.Buffer)
	metrics := observe.NewMetrics(
		observe.WithNamespace(cfg.Metrics.Namespace),
		observe.WithSubsystem(cfg.Metrics.Subsystem),
	)
	prev := reactive.SetObserver(observe.NewMulti(recorder, metrics, observe.NewTracer()))
	defer reactive.SetObserver(prev)

	var archiver devtools.Archiver
	if cfg.ArchiveEnabled() {
		client := devtools.NewS3Client(devtools.S3Options{
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			UsePathStyle:    cfg.Archive.PathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
		archiver = devtools.NewS3Archiver(client, cfg.Archive.Bucket, cfg.Archive.Prefix)
	}

	server := devtools.New(devtools.Config{
		Recorder: recorder,
		Archiver: archiver,
		Logger:   logger,
	})

	if withWorkload {
		go driveWorkload(ctx, cfg.Devtools.Interval)
	}

	out := cmd.OutOrStdout()
	success(out, "devtools on http://%s", cfg.Devtools.Addr)
	info(out, "recording %s", recorder.ID())
	return server.ListenAndServe(ctx, cfg.Devtools.Addr)
}

// driveWorkload steps the demo workload every interval until ctx is done.
func driveWorkload(ctx context.Context, interval time.Duration) {
	w := newWorkload(nil)
	defer w.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Step()
		}
	}
}
