package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/githubgphl/startools/internal/infrastructure/sqlite"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded tokenize runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20,
		"maximum number of runs to show (0 for all)")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	db, err := sqlite.Open(historyPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runs, err := db.Runs().List(runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no recorded runs")
		return nil
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cfg.Theme.HeaderColor))
	row := lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.ValueColor))
	badRow := lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.ErrorColor))
	border := lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.BorderColor))

	pathWidth := len("PATH")
	for _, r := range runs {
		if len(r.Path) > pathWidth {
			pathWidth = len(r.Path)
		}
	}

	fmt.Fprintln(out, header.Render(fmt.Sprintf("%-19s  %-*s %8s %5s %10s",
		"WHEN", pathWidth, "PATH", "TOKENS", "BAD", "DURATION")))
	fmt.Fprintln(out, border.Render(strings.Repeat("-", 19+2+pathWidth+1+8+1+5+1+10)))

	for _, r := range runs {
		style := row
		if r.BadTokens > 0 {
			style = badRow
		}
		fmt.Fprintln(out, style.Render(fmt.Sprintf("%-19s  %-*s %8d %5d %9.1fms",
			r.CreatedAt.Format(time.DateTime), pathWidth, r.Path,
			r.Tokens, r.BadTokens, r.DurationMs)))
	}
	return nil
}
