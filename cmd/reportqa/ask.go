package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"reportqa/internal/domain"
	"reportqa/internal/tui"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the report with cited sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := s.svc.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	printAnswer(cmd.OutOrStdout(), a)
	return nil
}

func printAnswer(w io.Writer, a *domain.Answer) {
	fmt.Fprintln(w, a.Text)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	if len(a.Hits) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, h := range a.Hits {
		fmt.Fprintf(w, "  - %s (%s, score %.3f)\n", h.Source, h.Type, h.Score)
	}
	if a.Chart != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, tui.RenderChart(a.Chart, 80))
	}
}
