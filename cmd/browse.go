package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/githubgphl/startools/internal/star"
	"github.com/githubgphl/startools/internal/ui/browser"
)

var browseCmd = &cobra.Command{
	Use:   "browse FILE",
	Short: "Browse a file's tokens interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&emitComments, "emit-comments", false,
		"include comment tokens in the stream")
	browseCmd.Flags().BoolVar(&lenientConstructs, "lenient-constructs", false,
		"treat misused loop_/global_/stop_ keywords as plain values")
	browseCmd.Flags().BoolVar(&lenientBrackets, "lenient-brackets", false,
		"treat [ and ] initial values as plain strings")

	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	path := args[0]

	stream, err := star.Open(path, streamOptions()...)
	if err != nil {
		return err
	}

	var tokens []star.Token
	for {
		tok, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		tokens = append(tokens, tok)
	}

	model := browser.New(path, tokens, cfg.Theme)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
