package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/vango-dev/reactive/pkg/observe"
	"github.com/vango-dev/reactive/pkg/reactive"
)

type benchResult struct {
	Writes   int
	Effects  int
	Runs     int
	Elapsed  time.Duration
	Observed bool
}

func (r benchResult) writesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Writes) / r.Elapsed.Seconds()
}

// runBench writes a tracked key n times with the given number of
// subscribed effects and times the trigger and re-run cycle.
func runBench(writes, effects int, observed bool) benchResult {
	if observed {
		prev := reactive.SetObserver(observe.NewMetrics(observe.WithRegistry(prometheus.NewRegistry())))
		defer reactive.SetObserver(prev)
	}

	state := reactive.Reactive(reactive.NewObject("n", 0))
	runs := 0
	watchers := make([]*reactive.Effect, effects)
	for i := range watchers {
		watchers[i] = reactive.Watch(func() {
			_ = state.Get("n")
			runs++
		})
	}
	defer func() {
		for _, e := range watchers {
			e.Stop()
		}
	}()

	runs = 0
	start := time.Now()
	for i := 1; i <= writes; i++ {
		state.Set("n", i)
	}

	return benchResult{
		Writes:   writes,
		Effects:  effects,
		Runs:     runs,
		Elapsed:  time.Since(start),
		Observed: observed,
	}
}

func benchCmd(flags *globalFlags) *cobra.Command {
	var (
		writes   int
		effects  int
		observed bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the track and trigger cycle",
		Long: `Write one reactive key repeatedly while several effects depend on it
and report throughput.

Examples:
  reactive bench
  reactive bench --writes=1000000 --effects=1
  reactive bench --observed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			setupLogging(cfg, cmd.ErrOrStderr())

			if writes <= 0 || effects <= 0 {
				return fmt.Errorf("--writes and --effects must be positive")
			}

			r := runBench(writes, effects, observed)
			out := cmd.OutOrStdout()
			success(out, "%d writes in %s", r.Writes, r.Elapsed.Round(time.Microsecond))
			info(out, "effects:       %d", r.Effects)
			info(out, "effect runs:   %d", r.Runs)
			info(out, "writes/s:      %.0f", r.writesPerSecond())
			info(out, "observed:      %v", r.Observed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&writes, "writes", "n", 100000, "Number of writes")
	cmd.Flags().IntVarP(&effects, "effects", "e", 10, "Number of effects reading the key")
	cmd.Flags().BoolVar(&observed, "observed", false, "Install the metrics observer while running")

	return cmd
}
