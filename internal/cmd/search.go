package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ddadvisor/internal/service"
)

var (
	searchTop  int
	searchJSON bool
)

// search runs the local knowledge-base lookup without the agent.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the local knowledge files",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTop, "top", "n", 0, "Number of results (0 uses corpus.top_k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup(false)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	ls := service.NewLocalSearch(service.LocalSearchConfig{
		Root:    cfg.Corpus.Root,
		Subdir:  cfg.Corpus.Subdir,
		Pattern: cfg.Corpus.Pattern,
		Top:     cfg.Corpus.TopK,
	}, l)
	resp, err := ls.Search(cmd.Context(), args[0], searchTop)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprintln(out, resp.Answer)
	return nil
}
