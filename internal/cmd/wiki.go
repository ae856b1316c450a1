package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddadvisor/internal/websearch"
)

var wikiMax int

var wikiCmd = &cobra.Command{
	Use:   "wiki <title>",
	Short: "Fetch a wiki page and print its main text",
	Args:  cobra.ExactArgs(1),
	RunE:  runWiki,
}

func init() {
	wikiCmd.Flags().IntVar(&wikiMax, "max", 0, "Maximum characters to print (0 uses web.max_chars)")
}

func runWiki(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup(false)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	maxChars := cfg.Web.MaxChars
	if wikiMax > 0 {
		maxChars = wikiMax
	}
	client := websearch.NewClient(websearch.Config{
		BaseURL:    cfg.Web.BaseURL,
		UserAgent:  cfg.Web.UserAgent,
		Timeout:    cfg.WebTimeout(),
		MaxRetries: cfg.Web.MaxRetries,
		MaxChars:   maxChars,
		Logger:     l,
	})
	page, err := client.SearchPage(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n\n%s\n", page.Title, page.URL, page.Text)
	return nil
}
