// Command airport-harness dispara reservas concorrentes contra cada estratégia
// de alocação e verifica que nenhuma pista é concedida duas vezes.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"airport-gateway/airport/domain"
	"airport-gateway/airport/harness"
	"airport-gateway/airport/infra"

	"github.com/hashicorp/go-multierror"
	clock "github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"
)

const (
	strategyFlag = "strategy"
	slotsFlag    = "slots"
	requestsFlag = "requests"
	modeFlag     = "mode"
	stepFlag     = "step"
)

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  strategyFlag,
			Usage: "strategies to exercise (mutex, queue, semaphore); repeatable",
			Value: cli.NewStringSlice(string(domain.StrategyMutex), string(domain.StrategyQueue), string(domain.StrategySemaphore)),
		},
		&cli.IntFlag{
			Name:  slotsFlag,
			Usage: "airstrips per allocator",
			Value: domain.DefaultSlotCount,
		},
		&cli.IntFlag{
			Name:  requestsFlag,
			Usage: "concurrent claims per round",
			Value: 10,
		},
		&cli.StringFlag{
			Name:  modeFlag,
			Usage: "same, distinct or both",
			Value: "both",
		},
		&cli.DurationFlag{
			Name:  stepFlag,
			Usage: "spacing between instants in distinct mode",
			Value: time.Millisecond,
		},
	}
}

func main() {
	if err := newApp(clock.NewRealClock(), os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(clk clock.Clock, out io.Writer) *cli.App {
	return &cli.App{
		Name:   "airport-harness",
		Usage:  "check allocation invariants under concurrent claims",
		Writer: out,
		Flags:  flags(),
		Action: func(c *cli.Context) error {
			return runHarness(c, clk)
		},
	}
}

func runHarness(c *cli.Context, clk clock.Clock) error {
	var strategies []domain.Strategy
	for _, s := range c.StringSlice(strategyFlag) {
		st, err := domain.ParseStrategy(s)
		if err != nil {
			return cli.Exit(err, 2)
		}
		strategies = append(strategies, st)
	}

	var modes []harness.Mode
	switch m := c.String(modeFlag); m {
	case "same":
		modes = []harness.Mode{harness.ModeSame}
	case "distinct":
		modes = []harness.Mode{harness.ModeDistinct}
	case "both":
		modes = []harness.Mode{harness.ModeSame, harness.ModeDistinct}
	default:
		return cli.Exit(fmt.Sprintf("unknown mode %q", m), 2)
	}

	slots := c.Int(slotsFlag)
	if slots <= 0 {
		slots = domain.DefaultSlotCount
	}
	requests := c.Int(requestsFlag)
	// um único "agora", calculado antes de qualquer goroutine.
	base := clk.Now()

	var result *multierror.Error
	for _, mode := range modes {
		reports := make(map[domain.Strategy]harness.Report, len(strategies))
		for _, st := range strategies {
			r, err := round(c, st, mode, slots, requests, base)
			if err != nil {
				return err
			}
			reports[st] = r

			fmt.Fprintf(c.App.Writer, "%-9s %-8s requests=%d granted=%d unavailable=%d unique=%d elapsed=%s\n",
				st, mode, r.Requests, r.Granted, r.Unavailable, r.Unique, r.Elapsed)
			if err := r.Check(slots); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s/%s: %w", st, mode, err))
			}
		}
		if err := harness.Compare(reports); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", mode, err))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintln(c.App.Writer, "ok")
	return nil
}

// round usa um allocator novo por estratégia e modo.
func round(c *cli.Context, st domain.Strategy, mode harness.Mode, slots, requests int, base time.Time) (harness.Report, error) {
	a, err := infra.NewAllocator(st, slots)
	if err != nil {
		return harness.Report{}, err
	}
	defer func() { _ = a.Close() }()

	if mode == harness.ModeDistinct {
		return harness.Distinct(c.Context, a, base, c.Duration(stepFlag), requests)
	}
	return harness.Same(c.Context, a, base, requests)
}
