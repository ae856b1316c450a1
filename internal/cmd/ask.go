package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ddadvisor/internal/agent"
	"ddadvisor/internal/app"
	"ddadvisor/internal/llm"
)

var (
	askStyle string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askStyle, "style", llm.StyleAdvisor, "Answer style: advisor, open, or a literal role prompt")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full outcome as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup(false)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	out := cmd.OutOrStdout()
	a := app.New(cfg, l)
	outcome, err := a.Ask(cmd.Context(), args[0], llm.RolePrompt(askStyle))
	if err != nil {
		fmt.Fprintln(out, agent.AgentUnavailableMessage)
		return err
	}

	if askJSON {
		outcome.Answer = outcome.AsText()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	if outcome.Fallback {
		fmt.Fprintf(out, "[fallback: %s] ", outcome.Tool)
	}
	fmt.Fprintln(out, outcome.AsText())
	return nil
}
