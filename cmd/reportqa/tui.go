package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"reportqa/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive question browser",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// stderr belongs to the terminal UI.
	if cfg.Log.File == "" {
		cfg.Log.File = "reportqa.log"
	}
	s, err := openSession(cmd.Context(), cfg, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	var timeout time.Duration
	if cfg.LLM.OpenAI != nil {
		timeout = time.Duration(cfg.LLM.OpenAI.TimeoutSecs) * time.Second
	}
	m := tui.New(s.svc, s.stats.Overview, timeout)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
