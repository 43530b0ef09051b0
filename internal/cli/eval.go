package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/ohlcv/config"
	"github.com/rustyeddy/ohlcv/feed"
	"github.com/rustyeddy/ohlcv/indicators"
	"github.com/rustyeddy/ohlcv/internal/logger"
	"github.com/rustyeddy/ohlcv/internal/metrics"
	"github.com/rustyeddy/ohlcv/journal"
	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
	"github.com/rustyeddy/ohlcv/pkg/id"
)

// parseSpec reads "type[:period[:k]]", e.g. "sma:20" or "bollinger:20:2".
func parseSpec(s, source string) (indicators.Spec, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	sp := indicators.Spec{Type: strings.ToLower(parts[0]), Source: source}
	if sp.Type == "" || len(parts) > 3 {
		return sp, fmt.Errorf("bad indicator %q: want type[:period[:k]]", s)
	}
	if len(parts) > 1 {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return sp, fmt.Errorf("bad indicator %q period: %w", s, err)
		}
		sp.Period = n
	}
	if len(parts) > 2 {
		k, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return sp, fmt.Errorf("bad indicator %q k: %w", s, err)
		}
		sp.K = k
	}
	return sp, nil
}

func specString(sp indicators.Spec) string {
	s := sp.Type
	if sp.Period > 0 {
		s += ":" + strconv.Itoa(sp.Period)
	}
	if sp.K > 0 {
		s += ":" + strconv.FormatFloat(sp.K, 'g', -1, 64)
	}
	if sp.Source != "" {
		s += "@" + sp.Source
	}
	return s
}

type evalOptions struct {
	barsPath   string
	fromStr    string
	toStr      string
	specs      []string
	source     string
	last       int
	journal    string
	journalDir string
	dbPath     string
	orgPath    string
	metrics    string
}

func newEvalCmd(rc *RootConfig) *cobra.Command {
	var o evalOptions

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate indicators over a bar CSV",
		Long: `Load bars (time,open,high,low,close[,volume]) into a series, build the
configured indicators and print their values. Use --journal to record the
bars and values.

Examples:
  ohlcv eval --bars eurusd_d1.csv -i sma:20 -i rsi:14
  ohlcv eval --bars eurusd_d1.csv -i bollinger:20:2 --journal sqlite --db runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.barsPath == "" {
				return fmt.Errorf("--bars is required")
			}
			return runEval(cmd.OutOrStdout(), rc.Config, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.barsPath, "bars", "", "bar CSV file (required)")
	f.StringVar(&o.fromStr, "from", "", "skip bars ending before this time")
	f.StringVar(&o.toStr, "to", "", "skip bars ending at or after this time")
	f.StringArrayVarP(&o.specs, "indicator", "i", nil, "indicator type[:period[:k]], repeatable (overrides config)")
	f.StringVar(&o.source, "source", "", "price source for --indicator: close|open|high|low|volume|typical")
	f.IntVar(&o.last, "last", 0, "print only the last N bars (0 prints all)")
	f.StringVar(&o.journal, "journal", "", "journal type: csv|sqlite|parquet (overrides config)")
	f.StringVar(&o.journalDir, "journal-dir", "", "directory for csv and parquet journals")
	f.StringVar(&o.dbPath, "db", "", "SQLite journal database")
	f.StringVar(&o.orgPath, "org", "", "write an Org-mode run summary to this file")
	f.StringVar(&o.metrics, "metrics-file", "", "write Prometheus textfile metrics to this file")
	return cmd
}

func runEval(out io.Writer, cfg *config.Config, o evalOptions) error {
	log := logger.WithComponent("eval")

	from, to, err := parseRange(o.fromStr, o.toStr)
	if err != nil {
		return err
	}
	specs := cfg.Indicators
	if len(o.specs) > 0 {
		specs = specs[:0:0]
		for _, s := range o.specs {
			sp, err := parseSpec(s, o.source)
			if err != nil {
				return err
			}
			specs = append(specs, sp)
		}
	}

	s, err := cfg.NewSeries()
	if err != nil {
		return err
	}
	n, err := feed.LoadBars(o.barsPath, s, from, to)
	if err != nil {
		return fmt.Errorf("load %s: %w", o.barsPath, err)
	}
	if s.IsEmpty() {
		return fmt.Errorf("load %s: %w", o.barsPath, market.ErrEmptySeries)
	}

	inds, err := indicators.BuildAll(s, specs)
	if err != nil {
		return err
	}
	g, err := indicators.NewGraph(inds...)
	if err != nil {
		return err
	}

	begin := s.BeginIndex()
	if o.last > 0 && s.EndIndex()-o.last+1 > begin {
		begin = s.EndIndex() - o.last + 1
	}

	start := time.Now()
	if err := printTable(out, s, g, begin, s.EndIndex()); err != nil {
		return err
	}
	elapsed := time.Since(start)
	log.WithFields(logger.Fields{
		"bars":       n,
		"indicators": len(g.Roots()),
		"nodes":      len(g.Order()),
		"elapsed":    elapsed.String(),
	}).Info("evaluated")
	if o.metrics != "" {
		if err := writeMetrics(o.metrics, s, g, elapsed); err != nil {
			return err
		}
	}

	jc := cfg.Journal
	if o.journal != "" {
		jc.Type = o.journal
	}
	if o.journalDir != "" {
		jc.Dir = o.journalDir
	}
	if o.dbPath != "" {
		jc.DBPath = o.dbPath
	}
	if jc.Type == "" && o.orgPath == "" {
		return nil
	}
	return recordRun(out, cfg, jc, s, g, o.orgPath)
}

func writeMetrics(path string, s *market.Series, g *indicators.Graph, elapsed time.Duration) error {
	m := metrics.New(s.Name(), s.Factory().Name())
	m.BarsLoaded.Set(float64(s.BarCount()))
	m.ObserveDuration(elapsed)
	for _, ind := range g.Order() {
		m.ObserveNodes(ind)
	}
	if err := m.WriteFile(path); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	logger.WithComponent("metrics").WithField("path", path).Debug("wrote metrics")
	return nil
}

func printTable(out io.Writer, s *market.Series, g *indicators.Graph, from, to int) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	header := []string{"INDEX", "TIME", "CLOSE"}
	for _, r := range g.Roots() {
		header = append(header, r.Name())
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	err := g.EvaluateRange(from, to, func(i int, vals []num.Num) error {
		row := []string{strconv.Itoa(i), s.EndTime(i).Format(time.RFC3339), s.ClosePrice(i).String()}
		for _, v := range vals {
			row = append(row, v.String())
		}
		_, err := fmt.Fprintln(tw, strings.Join(row, "\t"))
		return err
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

func recordRun(out io.Writer, cfg *config.Config, jc config.JournalConfig, s *market.Series, g *indicators.Graph, orgPath string) error {
	log := logger.WithComponent("journal")

	names := make([]string, len(g.Roots()))
	for k, r := range g.Roots() {
		names[k] = r.Name()
	}
	tf, _ := market.FormatTimeframe(s.DefaultBarPeriod())
	run := journal.Run{
		ID:         id.New(),
		Created:    time.Now().UTC(),
		Series:     s.Name(),
		Backend:    s.Factory().Name(),
		Timeframe:  tf,
		Period:     s.PeriodDescription(),
		Bars:       s.BarCount(),
		Indicators: names,
	}

	if jc.Type != "" {
		withJournal := *cfg
		withJournal.Journal = jc
		if err := withJournal.Validate(); err != nil {
			return err
		}
		j, err := withJournal.OpenJournal()
		if err != nil {
			return err
		}
		bars, values, err := record(j, run, s, g)
		if cerr := j.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		log.WithFields(logger.Fields{"run": run.ID, "type": jc.Type, "bars": bars, "values": values}).Info("recorded run")
		fmt.Fprintf(out, "run %s recorded (%d bars, %d values)\n", run.ID, bars, values)
	}

	if orgPath != "" {
		last := make([]journal.ValueRecord, 0, len(g.Roots()))
		vals, err := g.Evaluate(s.EndIndex())
		if err != nil {
			return err
		}
		for k, r := range g.Roots() {
			last = append(last, journal.NewValueRecord(run.ID, r, s.EndIndex(), vals[k]))
		}
		if err := journal.WriteRunOrg(orgPath, run, last); err != nil {
			return err
		}
		log.WithField("path", orgPath).Info("wrote org summary")
	}
	return nil
}

func record(j journal.Journal, run journal.Run, s *market.Series, g *indicators.Graph) (bars, values int, err error) {
	if err = j.RecordRun(run); err != nil {
		return
	}
	if bars, err = journal.RecordSeries(j, run.ID, s); err != nil {
		return
	}
	values, err = journal.RecordGraph(j, run.ID, g, s.BeginIndex(), s.EndIndex())
	return
}
