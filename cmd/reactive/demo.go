package main

import (
	"github.com/spf13/cobra"
	"github.com/vango-dev/reactive/pkg/observe"
	"github.com/vango-dev/reactive/pkg/reactive"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		cycles int
		trace  bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted reactive workload",
		Long: `Run a small todo-list model built from a reactive record, array, map
and set. Each step changes one piece of state and the effects that
depend on it print their new output.

With --trace every track, trigger and run is logged at debug level.

Examples:
  reactive demo
  reactive demo --cycles=3
  reactive demo --trace --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := setupLogging(cfg, cmd.ErrOrStderr())

			if trace {
				prev := reactive.SetObserver(observe.NewSlogObserver(logger))
				defer reactive.SetObserver(prev)
			}

			out := cmd.OutOrStdout()
			info(out, "initial run")
			w := newWorkload(out)
			defer w.Stop()

			for range cycles * workloadSteps {
				info(out, "%s", w.Step())
			}
			success(out, "%d steps", cycles*workloadSteps)
			return nil
		},
	}

	cmd.Flags().IntVarP(&cycles, "cycles", "n", 1, "Number of workload cycles")
	cmd.Flags().BoolVar(&trace, "trace", false, "Log every reactive event")

	return cmd
}
