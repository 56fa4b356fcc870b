package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seenimoa/marketsnap/internal/ticket"
	"github.com/seenimoa/marketsnap/internal/watchlist"
)

// --- Watchlist Commands ---

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Inspect or modify the persisted watchlist",
}

var watchlistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current watchlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range watchlist.Symbols(watchlist.NewFile(cfg.Watchlist.File), cfg.Watchlist.DefaultSymbols, log) {
			fmt.Println(s)
		}
		return nil
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add [symbol]",
	Short: "Add an allowed symbol to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyLocal(watchlist.ActionAdd, args[0])
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove [symbol]",
	Short: "Remove a symbol from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyLocal(watchlist.ActionRemove, args[0])
	},
}

var watchlistApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the command in a GitHub issue and report back on it",
	Long: `Reads an issue whose body contains lines of the form

  action:add
  symbol:TSLA

applies it to the watchlist, comments with the result and closes the issue.
The repository, issue number and token default to GITHUB_REPOSITORY,
ISSUE_NUMBER and GITHUB_TOKEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
			cfg.GitHub.Repository = repo
		}
		if n, _ := cmd.Flags().GetInt("issue"); n > 0 {
			cfg.GitHub.Issue = n
		}

		rep, err := ticket.NewGitHubReporter(cmd.Context(), cfg.GitHub.Token, cfg.GitHub.Repository, cfg.GitHub.Issue)
		if err != nil {
			return err
		}
		return ticket.HandleIssue(cmd.Context(), rep, newProcessor(), log)
	},
}

func init() {
	watchlistApplyCmd.Flags().String("repo", "", "repository as owner/repo")
	watchlistApplyCmd.Flags().Int("issue", 0, "issue number")

	watchlistCmd.AddCommand(watchlistShowCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
	watchlistCmd.AddCommand(watchlistApplyCmd)
}

func newProcessor() *watchlist.Processor {
	return watchlist.NewProcessor(
		watchlist.NewFile(cfg.Watchlist.File),
		watchlist.NewFile(cfg.Watchlist.AllowedFile),
		log,
	)
}

func applyLocal(action watchlist.Action, symbol string) error {
	cmd := watchlist.ParseCommand(fmt.Sprintf("action:%s\nsymbol:%s", action, symbol))
	res, err := newProcessor().Apply(cmd)
	if err != nil {
		return err
	}
	state := "updated"
	if !res.Changed {
		state = "unchanged"
	}
	fmt.Printf("Watchlist %s: %s %s\n", state, res.Command.Action, res.Command.Symbol)
	fmt.Printf("Current list: %s\n", strings.Join(res.Symbols, ", "))
	return nil
}
