package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reportqa/internal/domain"
	"reportqa/internal/retrieval"
)

var flagSearchK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Show the report passages and tables closest to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&flagSearchK, "k", "k", 0, "Number of results to show (default retrieval.top_k)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if flagSearchK < 0 {
		return fmt.Errorf("%w: -k %d", retrieval.ErrInvalidTopK, flagSearchK)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	hits, err := s.svc.Query(cmd.Context(), strings.Join(args, " "), flagSearchK)
	if err != nil {
		return err
	}
	printHits(cmd.OutOrStdout(), hits)
	return nil
}

func printHits(w io.Writer, hits []domain.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tTYPE\tSOURCE\tPREVIEW")
	for i, h := range hits {
		fmt.Fprintf(tw, "%d\t%.3f\t%s\t%s\t%s\n", i+1, h.Score, h.Type, h.Source, preview(h.Content, 60))
	}
	_ = tw.Flush()
}

// preview flattens whitespace and truncates to n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
