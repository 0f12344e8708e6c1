package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexhunt/internal/registry"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

var (
	flagHistory int
	flagClear   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show match statistics",
	Long: `Without a variant, summarize every variant played so far.
With a variant, show its best human scores and recent matches,
including the AI's search statistics.

Examples:
  hexhunt scores
  hexhunt scores hexhunt-r2
  hexhunt scores hexhunt-r3 --history 20
  hexhunt scores hexhunt-r1 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagHistory, "history", 10, "Number of recent matches to list")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the stored matches of the variant")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening match database: %v", err)
	}
	defer store.Close()

	if len(args) == 0 {
		printAllStats(store)
		return
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'hexhunt list' to see available variants.")
		store.Close()
		os.Exit(1)
	}

	if flagClear {
		if err := store.ClearMatches(gameID); err != nil {
			store.Close()
			fail("clearing matches: %v", err)
		}
		fmt.Printf("Cleared matches for %s.\n", gameID)
		return
	}

	printVariant(store, gameID)
}

func printAllStats(store *storage.Store) {
	all, err := store.GetAllGamesStats()
	if err != nil {
		store.Close()
		fail("retrieving stats: %v", err)
	}
	if len(all) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'hexhunt play' to record the first one!")
		return
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-12s  %7s  %5s  %5s  %5s  %4s  %9s  %5s\n", "Variant", "Matches", "Won", "Lost", "Drawn", "Best", "Nodes/mv", "Cache")
	fmt.Printf("  %-12s  %7s  %5s  %5s  %5s  %4s  %9s  %5s\n", "-------", "-------", "---", "----", "-----", "----", "--------", "-----")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-12s  %7d  %5d  %5d  %5d  %4d  %9.0f  %4.0f%%\n",
			id, st.Matches, st.HumanWins, st.AIWins, st.Draws, st.HighScore, st.AvgNodes, st.HitRate*100)
	}
}

func printVariant(store *storage.Store, gameID string) {
	fmt.Printf("HexHunt statistics - %s\n", registryTitle(gameID))
	fmt.Println()

	st, err := store.GetGameStats(gameID)
	if err != nil {
		store.Close()
		fail("retrieving stats: %v", err)
	}
	if st.Matches == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'hexhunt play %s' to record the first one!\n", gameID)
		return
	}
	fmt.Printf("Matches: %d   won %d / lost %d / drawn %d\n", st.Matches, st.HumanWins, st.AIWins, st.Draws)
	fmt.Printf("AI: %.0f nodes per move, %.0f%% cache hits\n", st.AvgNodes, st.HitRate*100)
	fmt.Println()

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		store.Close()
		fail("retrieving scores: %v", err)
	}
	if len(scores) > 0 {
		fmt.Println("Best scores:")
		fmt.Printf("  %-4s  %-6s  %-6s  %s\n", "Rank", "Score", "Result", "Date")
		fmt.Printf("  %-4s  %-6s  %-6s  %s\n", "----", "-----", "------", "----")
		for i, entry := range scores {
			fmt.Printf("  %-4d  %-6d  %-6s  %s\n", i+1, entry.Score, entry.Winner, entry.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Println()
	}

	matches, err := store.RecentMatches(gameID, flagHistory)
	if err != nil {
		store.Close()
		fail("retrieving matches: %v", err)
	}
	fmt.Println("Recent matches:")
	fmt.Printf("  %-5s  %-3s  %-3s  %-6s  %-6s  %-8s  %5s  %9s  %5s  %s\n",
		"ID", "You", "AI", "Winner", "Level", "Source", "Depth", "Nodes", "Cache", "Date")
	for _, m := range matches {
		fmt.Printf("  %-5d  %-3d  %-3d  %-6s  %-6s  %-8s  %5d  %9d  %4.0f%%  %s\n",
			m.ID, m.HumanScore, m.AIScore, m.Winner, m.Difficulty, m.Source,
			m.AIMaxDepth, m.AINodes, m.HitRate()*100, m.CreatedAt.Format("2006-01-02 15:04"))
	}
}
