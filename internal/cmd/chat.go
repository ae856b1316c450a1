package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ddadvisor/internal/app"
	"ddadvisor/internal/llm"
	"ddadvisor/internal/tui"
)

var chatStyle string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with the advisor",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatStyle, "style", llm.StyleAdvisor, "Answer style: advisor, open, or a literal role prompt")
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, l, err := setup(true)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	a := app.New(cfg, l)
	var asker tui.AskPort
	if a.Orchestrator != nil {
		asker = a
	}

	m := tui.New(cmd.Context(), asker, llm.RolePrompt(chatStyle), "Darkest Dungeon Advisor")
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
