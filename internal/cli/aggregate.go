package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/ohlcv/config"
	"github.com/rustyeddy/ohlcv/feed"
	"github.com/rustyeddy/ohlcv/internal/logger"
	"github.com/rustyeddy/ohlcv/market"
)

type aggregateOptions struct {
	tradesPath string
	ticksPaths []string
	digits     int
	barsPath   string
	timeframe  string
	sourceTF   string
	minBars    int
	fromStr    string
	toStr      string
	outPath    string
}

func newAggregateCmd(rc *RootConfig) *cobra.Command {
	var o aggregateOptions

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Build bars from trades, or resample bars to a longer timeframe",
		Long: `Aggregate trades (time,price,volume) or Dukascopy bi5 tick files into bars
of --timeframe, or resample an existing bar CSV into longer bars. Output is a
bar CSV.

Examples:
  ohlcv aggregate --trades btc_trades.csv --timeframe M1 -o btc_m1.csv
  ohlcv aggregate --ticks dukas/EURUSD/2024/00/15/*.bi5 --timeframe H1 --digits 5
  ohlcv aggregate --bars eurusd_m1.csv --timeframe H1 --min-bars 45`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := 0
			for _, set := range []bool{o.tradesPath != "", len(o.ticksPaths) > 0, o.barsPath != ""} {
				if set {
					inputs++
				}
			}
			if inputs != 1 {
				return fmt.Errorf("exactly one of --trades, --ticks or --bars is required")
			}
			out := cmd.OutOrStdout()
			if o.outPath != "" {
				f, err := os.Create(o.outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return runAggregate(out, rc, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.tradesPath, "trades", "", "trade CSV file")
	f.StringArrayVar(&o.ticksPaths, "ticks", nil, "Dukascopy bi5 tick file, repeatable, in time order")
	f.IntVar(&o.digits, "digits", 5, "decimal digits of bi5 prices (5 for EURUSD, 3 for USDJPY)")
	f.StringVar(&o.barsPath, "bars", "", "bar CSV file to resample")
	f.StringVar(&o.timeframe, "timeframe", "", "target timeframe, e.g. M1, H1, D1 (defaults to the config timeframe)")
	f.StringVar(&o.sourceTF, "source-timeframe", "", "timeframe of the --bars input (defaults to the config timeframe)")
	f.IntVar(&o.minBars, "min-bars", 1, "when resampling, drop buckets with fewer source bars")
	f.StringVar(&o.fromStr, "from", "", "skip input before this time")
	f.StringVar(&o.toStr, "to", "", "skip input at or after this time")
	f.StringVarP(&o.outPath, "output", "o", "", "write the bar CSV here instead of stdout")
	return cmd
}

func runAggregate(out io.Writer, rc *RootConfig, o aggregateOptions) error {
	log := logger.WithComponent("aggregate")
	cfg := *rc.Config
	if o.timeframe != "" {
		cfg.Series.Timeframe = o.timeframe
	}
	period, err := cfg.Period()
	if err != nil {
		return err
	}
	from, to, err := parseRange(o.fromStr, o.toStr)
	if err != nil {
		return err
	}

	var result *market.Series
	switch {
	case o.tradesPath != "":
		result, err = aggregateTrades(cfg, o, period, from, to)
	case len(o.ticksPaths) > 0:
		result, err = aggregateTicks(cfg, o, period, from, to)
	default:
		result, err = resampleBars(*rc.Config, o, period, from, to)
	}
	if err != nil {
		return err
	}
	log.WithFields(logger.Fields{"bars": result.BarCount(), "timeframe": cfg.Series.Timeframe}).Debug("writing bars")
	return feed.WriteBars(out, result)
}

func aggregateTrades(cfg config.Config, o aggregateOptions, period time.Duration, from, to time.Time) (*market.Series, error) {
	s, err := cfg.NewSeries()
	if err != nil {
		return nil, err
	}
	tf, err := feed.OpenTrades(o.tradesPath, s.Factory(), from, to)
	if err != nil {
		return nil, err
	}
	defer tf.Close()

	n, err := feed.AggregateTrades(tf, s, period)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", o.tradesPath, err)
	}
	logger.WithComponent("aggregate").WithFields(logger.Fields{
		"trades":  n,
		"bars":    s.BarCount(),
		"skipped": tf.Skipped(),
	}).Info("aggregated trades")
	return s, nil
}

func aggregateTicks(cfg config.Config, o aggregateOptions, period time.Duration, from, to time.Time) (*market.Series, error) {
	s, err := cfg.NewSeries()
	if err != nil {
		return nil, err
	}
	srcs := make([]feed.TradeSource, 0, len(o.ticksPaths))
	for _, path := range o.ticksPaths {
		tf, err := feed.OpenTicks(path, time.Time{}, s.Factory(), o.digits, from, to)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, tf)
	}

	n, err := feed.AggregateTrades(feed.Chain(srcs...), s, period)
	if err != nil {
		return nil, fmt.Errorf("aggregate ticks: %w", err)
	}
	logger.WithComponent("aggregate").WithFields(logger.Fields{
		"files": len(o.ticksPaths),
		"ticks": n,
		"bars":  s.BarCount(),
	}).Info("aggregated ticks")
	return s, nil
}

func resampleBars(src config.Config, o aggregateOptions, period time.Duration, from, to time.Time) (*market.Series, error) {
	src.Series.Window, src.Series.MaxBars = 0, 0
	if o.sourceTF != "" {
		src.Series.Timeframe = o.sourceTF
	}
	s, err := src.NewSeries()
	if err != nil {
		return nil, err
	}
	if _, err := feed.LoadBars(o.barsPath, s, from, to); err != nil {
		return nil, fmt.Errorf("load %s: %w", o.barsPath, err)
	}
	result, err := market.Resample(s, period, o.minBars)
	if err != nil {
		return nil, err
	}
	logger.WithComponent("aggregate").WithFields(logger.Fields{
		"source": s.BarCount(),
		"bars":   result.BarCount(),
	}).Info("resampled bars")
	return result, nil
}
