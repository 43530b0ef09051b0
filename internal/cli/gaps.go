package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/ohlcv/feed"
	"github.com/rustyeddy/ohlcv/market"
)

func newGapsCmd(rc *RootConfig) *cobra.Command {
	var (
		barsPath string
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Report missing bars in a bar CSV",
		Long: `Load a bar CSV with the configured timeframe and report stretches with no
bar, classified as minor, weekend or suspicious.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if barsPath == "" {
				return fmt.Errorf("--bars is required")
			}
			s, err := rc.Config.NewSeries()
			if err != nil {
				return err
			}
			if _, err := feed.LoadBars(barsPath, s, time.Time{}, time.Time{}); err != nil {
				return fmt.Errorf("load %s: %w", barsPath, err)
			}
			return printGaps(cmd.OutOrStdout(), s, list)
		},
	}
	cmd.Flags().StringVar(&barsPath, "bars", "", "bar CSV file (required)")
	cmd.Flags().BoolVar(&list, "list", false, "list every gap")
	return cmd
}

func printGaps(out io.Writer, s *market.Series, list bool) error {
	st := market.Stats(s)
	fmt.Fprintf(out, "series:     %s\n", s)
	fmt.Fprintf(out, "period:     %s\n", s.PeriodDescription())
	fmt.Fprintf(out, "bars:       %d\n", st.Bars)
	fmt.Fprintf(out, "gaps:       %d (%d missing bars)\n", st.Gaps, st.Missing)
	fmt.Fprintf(out, "weekend:    %d\n", st.Weekend)
	fmt.Fprintf(out, "suspicious: %d\n", st.Suspicious)
	if st.Gaps > 0 {
		fmt.Fprintf(out, "longest:    %d bars (%s)\n", st.Longest, st.LongestKind)
	}
	if !list || st.Gaps == 0 {
		return nil
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tSTART\tEND\tMISSING\tKIND")
	for _, g := range market.FindGaps(s) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", g.Index,
			g.Start.Format(time.RFC3339), g.End.Format(time.RFC3339), g.Missing, g.Kind)
	}
	return tw.Flush()
}
